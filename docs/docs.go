// Package docs registers the OpenAPI document served at /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {"name": "MIT", "url": "https://opensource.org/licenses/MIT"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "API liveness message",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Show the status of server",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/register": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"type": "string", "description": "Full name", "name": "name", "in": "formData", "required": true},
                    {"type": "string", "description": "Email address", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "description": "Password (8+ chars, upper, lower, digit, one of @$!%*#?&)", "name": "password", "in": "formData", "required": true},
                    {"type": "string", "description": "Mobile number", "name": "mobile_number", "in": "formData"},
                    {"type": "file", "description": "Identity documents", "name": "documents", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.RegisterResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [
                    {"description": "Credentials", "name": "credentials", "in": "body", "schema": {"$ref": "#/definitions/model.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.TokenResponse"}},
                    "400": {"description": "Incorrect email or password", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/account": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Open an account",
                "parameters": [
                    {"description": "Owner and account type", "name": "account", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.CreateAccountRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.CreateAccountResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "403": {"description": "Not authorized", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "409": {"description": "Account number collision, retry", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/dashboard/{userId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Accounts and transactions of a user",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "userId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.DashboardResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "403": {"description": "Not authorized", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        },
        "/verify-kyc/{userId}": {
            "post": {
                "security": [{"AdminKey": []}],
                "produces": ["application/json"],
                "tags": ["kyc"],
                "summary": "Record a KYC decision",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "userId", "in": "path", "required": true},
                    {"type": "boolean", "description": "true to approve, false to reject", "name": "approve", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.MessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.AppError"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/common.AppError"}}
                }
            }
        }
    },
    "definitions": {
        "common.AppError": {
            "type": "object",
            "properties": {"code": {"type": "integer"}, "detail": {"type": "string"}}
        },
        "model.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "model.TokenResponse": {
            "type": "object",
            "properties": {"access_token": {"type": "string"}, "token_type": {"type": "string"}}
        },
        "model.RegisterResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "user_id": {"type": "string"}}
        },
        "model.CreateAccountRequest": {
            "type": "object",
            "required": ["acc_type", "user_id"],
            "properties": {"acc_type": {"type": "string"}, "user_id": {"type": "string"}}
        },
        "model.CreateAccountResponse": {
            "type": "object",
            "properties": {"account_id": {"type": "string"}, "account_number": {"type": "string"}, "message": {"type": "string"}}
        },
        "model.AccountResponse": {
            "type": "object",
            "properties": {"acc_type": {"type": "string"}, "account_number": {"type": "string"}, "balance": {"type": "string"}, "user_id": {"type": "string"}}
        },
        "model.TransactionResponse": {
            "type": "object",
            "properties": {"amount": {"type": "string"}, "from_account": {"type": "string"}, "timestamp": {"type": "string"}, "to_account": {"type": "string"}}
        },
        "model.DashboardResponse": {
            "type": "object",
            "properties": {
                "accounts": {"type": "array", "items": {"$ref": "#/definitions/model.AccountResponse"}},
                "transactions": {"type": "array", "items": {"$ref": "#/definitions/model.TransactionResponse"}}
            }
        },
        "model.MessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "AdminKey": {"type": "apiKey", "name": "X-Admin-Key", "in": "header"},
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Smart Banking API",
	Description:      "Registration with KYC documents, JWT login, accounts with an initial deposit and a per-user dashboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
