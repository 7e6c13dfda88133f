package parser

import (
	"testing"
)

const petStore = "testdata/pet-store.yaml"

func TestParseFile(t *testing.T) {
	p, err := ParseFile(petStore)
	if err != nil {
		t.Fatalf("Failed to parse file: %v", err)
	}

	if p == nil {
		t.Fatal("Parser is nil")
	}
}

func TestModel(t *testing.T) {
	p, err := ParseFile(petStore)
	if err != nil {
		t.Fatalf("Failed to parse file: %v", err)
	}

	model, err := p.Model()
	if err != nil {
		t.Fatalf("Failed to build model: %v", err)
	}
	if model.Info == nil || model.Info.Title != "Swagger Petstore" {
		t.Errorf("Unexpected info: %+v", model.Info)
	}

	again, _ := p.Model()
	if again != model {
		t.Error("Expected the model to be built once")
	}
}

func TestGetServerURLs(t *testing.T) {
	p, err := ParseFile(petStore)
	if err != nil {
		t.Fatalf("Failed to parse file: %v", err)
	}

	urls, err := p.GetServerURLs()
	if err != nil {
		t.Fatalf("Failed to get server URLs: %v", err)
	}

	expectedURL := "http://petstore.swagger.io/v1"
	if len(urls) != 1 || urls[0] != expectedURL {
		t.Errorf("Expected server URL %s. Got: %v", expectedURL, urls)
	}
}

func TestGetServerURLsDefault(t *testing.T) {
	p, err := Parse([]byte("openapi: 3.0.1\ninfo:\n  title: t\n  version: v\npaths: {}\n"))
	if err != nil {
		t.Fatalf("Failed to parse document: %v", err)
	}

	urls, err := p.GetServerURLs()
	if err != nil {
		t.Fatalf("Failed to get server URLs: %v", err)
	}
	if len(urls) != 1 || urls[0] != "http://localhost" {
		t.Errorf("Expected localhost fallback, got %v", urls)
	}
}

func TestGetOperations(t *testing.T) {
	p, err := ParseFile(petStore)
	if err != nil {
		t.Fatalf("Failed to parse file: %v", err)
	}

	operations, err := p.GetOperations("http://petstore.swagger.io/v1")
	if err != nil {
		t.Fatalf("Failed to get operations: %v", err)
	}

	expected := []struct {
		method, path, id string
		callback         bool
	}{
		{"GET", "/pets", "listPets", false},
		{"POST", "/pets", "createPets", false},
		{"POST", "{$request.body#/callbackUrl}", "petAdopted", true},
		{"GET", "/pets/{petId}", "showPetById", false},
		{"TRACE", "/pets/{petId}", "tracePet", false},
	}
	if len(operations) != len(expected) {
		t.Fatalf("Expected %d operations, got %d", len(expected), len(operations))
	}
	for i, e := range expected {
		op := operations[i]
		if op.Method != e.method || op.Path != e.path || op.OperationID != e.id || op.Callback != e.callback {
			t.Errorf("Operation %d: expected %+v, got %+v", i, e, op)
		}
	}

	if operations[0].FullPath != "http://petstore.swagger.io/v1/pets" {
		t.Errorf("Unexpected full path %s", operations[0].FullPath)
	}
	if !operations[3].Deprecated {
		t.Error("Expected showPetById to be deprecated")
	}
}

func TestGetOperationDetails(t *testing.T) {
	p, err := ParseFile(petStore)
	if err != nil {
		t.Fatalf("Failed to parse file: %v", err)
	}

	details, err := p.GetOperationDetails("/pets", "get")
	if err != nil {
		t.Fatalf("Failed to get operation details: %v", err)
	}

	if details.Path != "/pets" {
		t.Errorf("Expected path /pets, got %s", details.Path)
	}

	if details.Method != "GET" {
		t.Errorf("Expected method GET, got %s", details.Method)
	}

	if details.Operation == nil {
		t.Error("Operation is nil")
	}

	if details.Responses == nil {
		t.Error("Responses is nil")
	}

	if len(details.Parameters) != 1 || details.Parameters[0].Name != "limit" {
		t.Errorf("Unexpected parameters %v", details.Parameters)
	}
}

func TestGetOperationDetailsErrors(t *testing.T) {
	p, err := ParseFile(petStore)
	if err != nil {
		t.Fatalf("Failed to parse file: %v", err)
	}

	if _, err := p.GetOperationDetails("/missing", "GET"); err == nil {
		t.Error("Expected error for missing path")
	}
	if _, err := p.GetOperationDetails("/pets", "FETCH"); err == nil {
		t.Error("Expected error for unsupported method")
	}
	if _, err := p.GetOperationDetails("/pets", "DELETE"); err == nil {
		t.Error("Expected error for missing operation")
	}
}

func TestParseFileNotFound(t *testing.T) {
	_, err := ParseFile("nonexistent.json")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}
