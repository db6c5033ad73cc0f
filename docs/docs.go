// Package docs registers the swagger document served on /swagger in local mode.
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
        "/api/catalog": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "Get the committed vote catalog",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.CatalogResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/catalog/selections/{name}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Catalog"],
                "summary": "Get a selection by global name",
                "parameters": [{"type": "string", "description": "Selection global name", "name": "name", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SelectionResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/polls": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Polls"],
                "summary": "Get the resolved result of every poll",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.PollResponse"}}}
                }
            }
        },
        "/api/polls/{key}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Polls"],
                "summary": "Get the resolved result of a poll",
                "parameters": [{"type": "string", "description": "Poll key", "name": "key", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PollResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/polls/{key}/votes/{bit}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Polls"],
                "summary": "Check whether a vote bit is set in a poll",
                "parameters": [
                    {"type": "string", "description": "Poll key", "name": "key", "in": "path", "required": true},
                    {"type": "integer", "description": "Vote bit", "name": "bit", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.VoteBitResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/sync/rulebook": {
            "get": {
                "produces": ["application/octet-stream"],
                "tags": ["Sync"],
                "summary": "Encode the current rule book as a full-state message",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"AdminToken": []}],
                "consumes": ["application/octet-stream"],
                "produces": ["application/json"],
                "tags": ["Sync"],
                "summary": "Apply a full-state message to the current rule book",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.RuleBookResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/sync/votes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Sync"],
                "summary": "List the voters holding a vote sheet in the current session",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "string"}}}
                }
            }
        },
        "/api/sync/votes/{voter}": {
            "get": {
                "produces": ["application/octet-stream"],
                "tags": ["Sync"],
                "summary": "Encode a voter's votes as a selection-diff message",
                "parameters": [
                    {"type": "string", "description": "Voter id", "name": "voter", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/octet-stream"],
                "produces": ["application/json"],
                "tags": ["Sync"],
                "summary": "Apply a voter's selection-diff message",
                "parameters": [
                    {"type": "string", "description": "Voter id", "name": "voter", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.VotesResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/sync/adopt": {
            "post": {
                "security": [{"AdminToken": []}],
                "produces": ["application/json"],
                "tags": ["Sync"],
                "summary": "Adopt the current rule state and persist the poll results",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.AdoptResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/sessions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "List all stored poll results",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/storage.PollResult"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/sessions/{id}/results": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Get the poll results stored for a session",
                "parameters": [{"type": "string", "description": "Session id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/storage.PollResult"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/api/sessions/{id}/snapshot": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Sessions"],
                "summary": "Get the last rule book snapshot of a session",
                "parameters": [{"type": "string", "description": "Session id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/storage.Snapshot"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "models.ChoiceResponse": {
            "type": "object",
            "properties": {
                "globalName": {"type": "string"},
                "localName": {"type": "string"},
                "localIndex": {"type": "integer"},
                "globalIndex": {"type": "integer"},
                "voteBit": {"type": "integer"},
                "pollKey": {"type": "string"},
                "payload": {},
                "tooltip": {"type": "object"}
            }
        },
        "models.SelectionResponse": {
            "type": "object",
            "properties": {
                "globalName": {"type": "string"},
                "displayName": {"type": "string"},
                "globalIndex": {"type": "integer"},
                "defaultChoice": {"type": "integer"},
                "choices": {"type": "array", "items": {"$ref": "#/definitions/models.ChoiceResponse"}}
            }
        },
        "models.CategoryResponse": {
            "type": "object",
            "properties": {
                "displayName": {"type": "string"},
                "position": {"type": "integer"},
                "color": {"type": "object"},
                "hidden": {"type": "boolean"},
                "selections": {"type": "array", "items": {"$ref": "#/definitions/models.SelectionResponse"}}
            }
        },
        "models.CatalogResponse": {
            "type": "object",
            "properties": {
                "categories": {"type": "array", "items": {"$ref": "#/definitions/models.CategoryResponse"}},
                "selectionCount": {"type": "integer"},
                "choiceCount": {"type": "integer"},
                "hostSelections": {"type": "integer"},
                "hostChoices": {"type": "integer"}
            }
        },
        "models.PollResponse": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "mask": {"type": "integer"},
                "bits": {"type": "array", "items": {"type": "integer"}},
                "extraData": {"type": "object"}
            }
        },
        "models.VoteBitResponse": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "bit": {"type": "integer"},
                "voted": {"type": "boolean"}
            }
        },
        "models.RuleBookResponse": {
            "type": "object",
            "properties": {
                "sessionId": {"type": "string"},
                "selections": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "models.VotesResponse": {
            "type": "object",
            "properties": {
                "voter": {"type": "string"},
                "votes": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "models.AdoptResponse": {
            "type": "object",
            "properties": {
                "sessionId": {"type": "string"},
                "gameMode": {"type": "string"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/storage.PollResult"}}
            }
        },
        "storage.PollResult": {
            "type": "object",
            "properties": {
                "sessionId": {"type": "string"},
                "pollKey": {"type": "string"},
                "mask": {"type": "integer"},
                "payloads": {"type": "object", "additionalProperties": {"type": "string"}},
                "gameMode": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "storage.Snapshot": {
            "type": "object",
            "properties": {
                "sessionId": {"type": "string"},
                "message": {"type": "string", "format": "byte"},
                "selections": {"type": "object", "additionalProperties": {"type": "string"}},
                "updatedAt": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "AdminToken": {"type": "apiKey", "name": "x-admin-token", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "",
	Schemes:          []string{},
	Title:            "Vote Catalog API",
	Description:      "Vote catalog registry, rule book sync and poll results",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
