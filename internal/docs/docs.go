// Package docs registers the OpenAPI description served at /swagger.
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
            "post": {
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handlers.RegisterRequest"}}],
                "responses": {
                    "201": {"description": "User registered and token generated", "schema": {"$ref": "#/definitions/handlers.AuthResponse"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Email already registered", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login user",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handlers.LoginRequest"}}],
                "responses": {
                    "200": {"description": "User authenticated and token generated", "schema": {"$ref": "#/definitions/handlers.AuthResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {"200": {"description": "User profile"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}}
            }
        },
        "/investment-avenues/": {
            "get": {"tags": ["avenues"], "summary": "List active investment avenues", "responses": {"200": {"description": "Avenues"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["avenues"], "summary": "Create avenue", "responses": {"201": {"description": "Avenue created"}}}
        },
        "/investment-avenues/{id}/": {
            "get": {"tags": ["avenues"], "summary": "Get avenue", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Avenue"}, "404": {"description": "Avenue not found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["avenues"], "summary": "Update avenue", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Updated avenue"}, "409": {"description": "Avenue in use"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["avenues"], "summary": "Delete avenue", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "Deleted"}, "409": {"description": "Avenue in use"}}}
        },
        "/clients/": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "List clients", "responses": {"200": {"description": "Clients"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "Create client", "responses": {"201": {"description": "Client created"}, "409": {"description": "Duplicate client code"}}}
        },
        "/clients/{code}/": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "Get client", "parameters": [{"type": "string", "name": "code", "in": "path", "required": true}], "responses": {"200": {"description": "Client"}, "404": {"description": "Client not found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "Update client", "parameters": [{"type": "string", "name": "code", "in": "path", "required": true}], "responses": {"200": {"description": "Updated client"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["clients"], "summary": "Delete client", "parameters": [{"type": "string", "name": "code", "in": "path", "required": true}], "responses": {"204": {"description": "Deleted or deactivated"}}}
        },
        "/investments/": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["investments"],
                "summary": "List investments",
                "parameters": [
                    {"type": "string", "name": "client_code", "in": "query"},
                    {"type": "string", "name": "investment_type", "in": "query"}
                ],
                "responses": {"200": {"description": "Flat records"}, "400": {"description": "Unsupported investment type"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["investments"],
                "summary": "Create investment",
                "parameters": [
                    {"type": "string", "name": "Idempotency-Key", "in": "header"},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/investment.Submission"}}
                ],
                "responses": {
                    "201": {"description": "Created flat record"},
                    "400": {"description": "Validation error, unsupported variant or avenue mismatch", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Client or avenue not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Idempotency conflict", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/investments/{id}/": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["investments"], "summary": "Get investment", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Flat record"}, "404": {"description": "Investment not found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["investments"], "summary": "Update investment", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Updated flat record"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["investments"], "summary": "Delete investment", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/investments/{id}/history/": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["investments"], "summary": "Investment history", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Audit entries, oldest first"}, "404": {"description": "Investment not found"}}}
        },
        "/portfolio/summary/": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["portfolio"], "summary": "Portfolio summary", "responses": {"200": {"description": "Summary"}}}
        },
        "/portfolio/holdings/": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["portfolio"], "summary": "Paginated holdings", "responses": {"200": {"description": "Holdings page"}}}
        },
        "/dashboard/maturities/": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["portfolio"], "summary": "Upcoming maturities", "parameters": [{"type": "integer", "name": "days", "in": "query"}], "responses": {"200": {"description": "Maturities"}}}
        },
        "/reports/holdings.csv": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["reports"], "summary": "Holdings CSV export", "produces": ["text/csv"], "responses": {"200": {"description": "CSV attachment"}}}
        },
        "/pipeline/reports/holdings.csv": {
            "get": {"security": [{"ApiKeyAuth": []}], "tags": ["pipeline"], "summary": "Holdings CSV for service consumers", "produces": ["text/csv"], "responses": {"200": {"description": "CSV attachment"}, "401": {"description": "Invalid API key"}}}
        }
    },
    "definitions": {
        "handlers.ErrorDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"$ref": "#/definitions/handlers.ErrorDetail"}}
        },
        "handlers.RegisterRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string", "minLength": 8}, "name": {"type": "string"}}
        },
        "handlers.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handlers.UserResponse": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "email": {"type": "string"}, "name": {"type": "string"}, "role": {"type": "string"}}
        },
        "handlers.AuthResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "user": {"$ref": "#/definitions/handlers.UserResponse"}}
        },
        "investment.ClientDetailPayload": {
            "type": "object",
            "required": ["client_code", "avenue_id", "start_date"],
            "properties": {
                "client_code": {"type": "string"},
                "avenue_id": {"type": "integer"},
                "account_no": {"type": "string"},
                "folio_no": {"type": "string"},
                "start_date": {"type": "string", "format": "date"},
                "end_date": {"type": "string", "format": "date"}
            }
        },
        "investment.Submission": {
            "type": "object",
            "required": ["client_detail", "investment_type", "investment_data"],
            "properties": {
                "client_detail": {"$ref": "#/definitions/investment.ClientDetailPayload"},
                "investment_type": {
                    "type": "string",
                    "enum": ["equity", "demat", "debt", "fixed_deposit", "mutual_fund", "ppf", "nsc", "nps", "bullion", "real_estate"]
                },
                "investment_data": {"type": "object"},
                "type_override": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-API-Key", "in": "header"},
        "BearerAuth": {"description": "Type \"Bearer\" followed by a space and JWT token.", "type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Nivesh API",
	Description:      "Nivesh records client investments across ten instrument types for advisors and serves portfolio views over them.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
