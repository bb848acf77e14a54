package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rsharma/mailbrief/internal/digest"
)

// JSON writes data as JSON to stdout
func JSON(data interface{}) error {
	return JSONTo(os.Stdout, data)
}

// JSONTo writes data as JSON to the given writer
func JSONTo(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Render writes a report in the specified format
func Render(format string, r *digest.Report) error {
	switch format {
	case "json":
		return JSON(r.Summaries())
	case "report", "":
		return Report(os.Stdout, r)
	case "table":
		return Overview(os.Stdout, r)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
