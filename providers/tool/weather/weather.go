package weather

import (
	"context"
	"strings"

	"github.com/leofalp/toolagent/providers/tool"
)

// Name is the tool name advertised to the model.
const Name = "get_weather"

// Fallback is returned for any city missing from the table.
const Fallback = "Sorry, weather information for this city is not available right now."

// Input is the weather tool's argument object.
type Input struct {
	City string `json:"city" jsonschema:"description=Name of the city such as Beijing"`
}

var forecasts = map[string]string{
	"beijing":  "Beijing: sunny today, 15-25°C, light breeze",
	"shanghai": "Shanghai: cloudy, 18-28°C, southeast wind",
	"shenzhen": "Shenzhen: showers, 22-30°C, south wind",
}

var aliases = map[string]string{
	"北京": "beijing",
	"上海": "shanghai",
	"深圳": "shenzhen",
}

// NewWeatherTool returns the weather lookup tool.
func NewWeatherTool() *tool.Tool[Input, string] {
	return tool.NewTool(
		Name,
		Lookup,
		tool.WithDescription("Gets the current weather for a city."),
	)
}

// Lookup returns the canned forecast for req.City, matched case-insensitively
// by English or Chinese name. Unknown cities get Fallback; Lookup never fails.
func Lookup(_ context.Context, req Input) (string, error) {
	key := strings.ToLower(strings.TrimSpace(req.City))
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	if forecast, ok := forecasts[key]; ok {
		return forecast, nil
	}
	return Fallback, nil
}
