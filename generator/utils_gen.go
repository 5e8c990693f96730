package generator

import (
	"bytes"
	"embed"
	"text/template"
)

// Names of the helper functions emitted into utils.bal.
const (
	encodedURIFunc = "getEncodedUri"
	queryPathFunc  = "getPathForQueryParam"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl"))

// utilsData selects the helpers rendered into utils.bal.
type utilsData struct {
	QueryHelper bool
}

// generateUtils renders utils.bal. getEncodedUri is always included since
// the query helper depends on it.
func generateUtils(queryHelper bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "utils.bal", utilsData{QueryHelper: queryHelper}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
