package parser

import (
	"fmt"
	"os"
	"strings"

	"github.com/moamenhredeen/oasgen/internal/models"
	"github.com/moamenhredeen/oasgen/internal/openapi"
	"github.com/pb33f/libopenapi"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
)

// Parser handles parsing OpenAPI specification files
type Parser struct {
	document libopenapi.Document
	model    *v3.Document
}

// ParseFile parses an OpenAPI specification file and returns a Parser instance
func ParseFile(filePath string) (*Parser, error) {
	specBytes, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read OpenAPI file: %w", err)
	}
	return Parse(specBytes)
}

// Parse parses an OpenAPI document held in memory
func Parse(specBytes []byte) (*Parser, error) {
	document, err := libopenapi.NewDocument(specBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}

	return &Parser{document: document}, nil
}

// Model returns the high level v3 model, building it on first use
func (p *Parser) Model() (*v3.Document, error) {
	if p.model != nil {
		return p.model, nil
	}
	model, errs := p.document.BuildV3Model()
	if errs != nil {
		return nil, fmt.Errorf("failed to build v3 model: %v", errs)
	}
	p.model = &model.Model
	return p.model, nil
}

// GetServerURLs returns the server URLs from the OpenAPI spec
func (p *Parser) GetServerURLs() ([]string, error) {
	model, err := p.Model()
	if err != nil {
		return nil, err
	}

	servers := model.Servers
	if len(servers) == 0 {
		return []string{"http://localhost"}, nil
	}

	urls := make([]string, 0, len(servers))
	for _, server := range servers {
		if server != nil && server.URL != "" {
			urls = append(urls, server.URL)
		}
	}

	return urls, nil
}

// GetOperations extracts all operations from the OpenAPI spec, including the
// operations of callbacks, in path and verb order
func (p *Parser) GetOperations(serverURL string) ([]models.Operation, error) {
	model, err := p.Model()
	if err != nil {
		return nil, err
	}

	var operations []models.Operation
	paths := model.Paths

	if paths == nil || paths.PathItems == nil {
		return operations, nil
	}

	// Iterate over ordered map
	for pair := paths.PathItems.First(); pair != nil; pair = pair.Next() {
		operations = appendOperations(operations, pair.Key(), pair.Value(), serverURL, false)
	}

	return operations, nil
}

func appendOperations(operations []models.Operation, path string, item *v3.PathItem, serverURL string, callback bool) []models.Operation {
	for _, mo := range openapi.Operations(item) {
		op := mo.Operation
		tags := []string{}
		if op.Tags != nil {
			tags = append(tags, op.Tags...)
		}

		operations = append(operations, models.Operation{
			Path:        path,
			Method:      mo.Method,
			OperationID: op.OperationId,
			Summary:     op.Summary,
			Tags:        tags,
			Deprecated:  op.Deprecated != nil && *op.Deprecated,
			Callback:    callback,
			ServerURL:   serverURL,
			FullPath:    serverURL + path,
		})

		if op.Callbacks == nil {
			continue
		}
		for cb := op.Callbacks.First(); cb != nil; cb = cb.Next() {
			if cb.Value() == nil || cb.Value().Expression == nil {
				continue
			}
			for exp := cb.Value().Expression.First(); exp != nil; exp = exp.Next() {
				operations = appendOperations(operations, exp.Key(), exp.Value(), "", true)
			}
		}
	}
	return operations
}

// OperationDetails holds detailed information about a specific operation
type OperationDetails struct {
	Operation   *v3.Operation
	Path        string
	Method      string
	Parameters  []*v3.Parameter
	RequestBody *v3.RequestBody
	Responses   *v3.Responses
}

// GetOperationDetails extracts detailed information for a specific operation
func (p *Parser) GetOperationDetails(path, method string) (*OperationDetails, error) {
	model, err := p.Model()
	if err != nil {
		return nil, err
	}

	paths := model.Paths
	if paths == nil || paths.PathItems == nil {
		return nil, fmt.Errorf("path not found: %s", path)
	}

	pathItem, ok := paths.PathItems.Get(path)
	if !ok || pathItem == nil {
		return nil, fmt.Errorf("path not found: %s", path)
	}

	method = strings.ToUpper(method)
	if !openapi.IsMethod(method) {
		return nil, fmt.Errorf("unsupported method: %s", method)
	}

	var operation *v3.Operation
	for _, mo := range openapi.Operations(pathItem) {
		if mo.Method == method {
			operation = mo.Operation
		}
	}

	if operation == nil {
		return nil, fmt.Errorf("operation not found: %s %s", method, path)
	}

	// Extract parameters
	var parameters []*v3.Parameter
	if operation.Parameters != nil {
		parameters = append(parameters, operation.Parameters...)
	}

	return &OperationDetails{
		Operation:   operation,
		Path:        path,
		Method:      method,
		Parameters:  parameters,
		RequestBody: operation.RequestBody,
		Responses:   operation.Responses,
	}, nil
}
