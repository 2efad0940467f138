// Package docs holds the swagger spec served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o internal/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/register": {
            "post": {"tags": ["auth"], "summary": "Register a new user", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/auth/login": {
            "post": {"tags": ["auth"], "summary": "Login user", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/profile": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Get user profile", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/users": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "List users", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/imports": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["imports"], "summary": "Import a spreadsheet", "consumes": ["multipart/form-data"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "413": {"description": "Request Entity Too Large"}}},
            "get": {"security": [{"BearerAuth": []}], "tags": ["imports"], "summary": "List import runs", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/imports/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["imports"], "summary": "Get import run", "produces": ["application/json"], "parameters": [{"type": "string", "description": "Import ID", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/transactions": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Create a transaction", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "422": {"description": "Unprocessable Entity"}}},
            "get": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "List transactions", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/transactions/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Get transaction by ID", "produces": ["application/json"], "parameters": [{"type": "integer", "description": "Transaction ID", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Update transaction", "consumes": ["application/json"], "produces": ["application/json"], "parameters": [{"type": "integer", "description": "Transaction ID", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/reports/utility": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["reports"], "summary": "Totals by utility", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/reports/owners": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["reports"], "summary": "Totals by owner", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/reports/complexes": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["reports"], "summary": "Totals by complex", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/owners": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["reference"], "summary": "Ensure owner", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}}},
            "get": {"security": [{"BearerAuth": []}], "tags": ["reference"], "summary": "List owners", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/complexes": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["reference"], "summary": "Ensure complex", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}},
            "get": {"security": [{"BearerAuth": []}], "tags": ["reference"], "summary": "List complexes", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Utility Ledger API",
	Description:      "Ingests utility consumption spreadsheets and reconciles them into a queryable ledger.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
