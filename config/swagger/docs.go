// Package swagger registers the OpenAPI document served under /swagger.
// Keep it in sync with the annotations in controllers (swag init -o config/swagger).
package swagger

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
        "/ping": {
            "get": {
                "description": "Returns a basic message",
                "produces": ["application/json"],
                "tags": ["test"],
                "summary": "Endpoint just pings the server",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/message"}}
                }
            }
        },
        "/games": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["games"],
                "summary": "Lists the live game lobbies",
                "parameters": [
                    {"type": "string", "description": "Bearer JWT token", "name": "Authorization", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.GameSummary"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/error"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/error"}}
                }
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "The caller becomes the host and first player. Players join through the socket.io \"join\" event with the returned joining code.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["games"],
                "summary": "Creates a new game lobby",
                "parameters": [
                    {"type": "string", "description": "Bearer JWT token", "name": "Authorization", "in": "header", "required": true},
                    {"description": "Lobby settings", "name": "game", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.GameCreation"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.GameSummary"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/error"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/error"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        },
        "/games/{joining_code}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Given a joining code, returns the lobby roster and its state",
                "produces": ["application/json"],
                "tags": ["games"],
                "summary": "Gives info of a game lobby",
                "parameters": [
                    {"type": "string", "description": "Bearer JWT token", "name": "Authorization", "in": "header", "required": true},
                    {"type": "string", "description": "Joining code of the game", "name": "joining_code", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.GameSummary"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/error"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/error"}}
                }
            }
        }
    },
    "definitions": {
        "message": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "error": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "error": {"type": "string"}}
        },
        "models.GameCreation": {
            "type": "object",
            "required": ["max_players"],
            "properties": {
                "max_players": {"type": "integer", "minimum": 1, "maximum": 16},
                "total_questions": {"type": "integer", "minimum": 1, "maximum": 50},
                "exclude_categories": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "models.PlayerInfo": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "name": {"type": "string"}}
        },
        "models.GameSummary": {
            "type": "object",
            "properties": {
                "joining_code": {"type": "string"},
                "host": {"$ref": "#/definitions/models.PlayerInfo"},
                "max_players": {"type": "integer"},
                "total_questions": {"type": "integer"},
                "players": {"type": "array", "items": {"$ref": "#/definitions/models.PlayerInfo"}},
                "is_started": {"type": "boolean"},
                "is_finished": {"type": "boolean"},
                "is_full": {"type": "boolean"},
                "created_at": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "dtrivia API",
	Description:      "Gin-Gonic server for the multiplayer trivia game. Gameplay runs over socket.io at /socket.io/.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
