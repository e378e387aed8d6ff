package servers

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var rawDocument []byte

// GetSwagger parses the embedded OpenAPI document.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawDocument)
	if err != nil {
		return nil, fmt.Errorf("error loading openapi document: %w", err)
	}
	return doc, nil
}

// DocumentJSON renders the document as JSON for /openapi.json and the
// swagger UI.
func DocumentJSON() ([]byte, error) {
	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	return doc.MarshalJSON()
}

// swaggerDoc feeds the embedded document to swag, which echo-swagger reads
// its doc.json from.
type swaggerDoc struct {
	once sync.Once
	doc  string
}

func (d *swaggerDoc) ReadDoc() string {
	d.once.Do(func() {
		b, err := DocumentJSON()
		if err != nil {
			d.doc = "{}"
			return
		}
		d.doc = string(b)
	})
	return d.doc
}

var registerOnce sync.Once

// RegisterSwaggerDoc makes the document available to swag readers under the
// default instance name. Safe to call more than once.
func RegisterSwaggerDoc() {
	registerOnce.Do(func() {
		swag.Register(swag.Name, &swaggerDoc{})
	})
}
