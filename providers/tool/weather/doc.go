// Package weather provides a demonstration tool that answers weather
// questions from a fixed table of cities.
package weather
