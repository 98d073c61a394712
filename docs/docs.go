// Package docs registers the OpenAPI document of the TweetBloom API with swag.
// Regenerate with: swag init -g cmd/api/main.go -o docs
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
		"/conversations": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"tags": [
					"conversations"
				],
				"summary": "List conversations",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/handlers.ConversationResponse"
							}
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"429": {
						"description": "Rate limit exceeded",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Only conversations in this folder",
						"name": "folderId",
						"in": "query"
					}
				]
			},
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"tags": [
					"conversations"
				],
				"summary": "Submit a prompt",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/services.TurnResult"
						}
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"409": {
						"description": "Turn limit reached",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"502": {
						"description": "AI backend failed",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"503": {
						"description": "AI backend not configured",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"429": {
						"description": "Rate limit exceeded",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.SubmitTurnRequest"
						}
					}
				]
			}
		},
		"/conversations/evaluate": {
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"tags": [
					"conversations"
				],
				"summary": "Suggest the next prompt",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.EvaluateResponse"
						}
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"429": {
						"description": "Rate limit exceeded",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.EvaluateRequest"
						}
					}
				]
			}
		},
		"/conversations/continue": {
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"tags": [
					"conversations"
				],
				"summary": "Carry a conversation over",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.ContinueResponse"
						}
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"429": {
						"description": "Rate limit exceeded",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.ConversationRefRequest"
						}
					}
				]
			}
		},
		"/conversations/{id}": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"tags": [
					"conversations"
				],
				"summary": "Get a conversation with its messages",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.ConversationDetailResponse"
						}
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"429": {
						"description": "Rate limit exceeded",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Conversation ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			},
			"patch": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"tags": [
					"conversations"
				],
				"summary": "Rename, refile or retag a conversation",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.ConversationDetailResponse"
						}
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"429": {
						"description": "Rate limit exceeded",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Conversation ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.UpdateConversationRequest"
						}
					}
				]
			},
			"delete": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"tags": [
					"conversations"
				],
				"summary": "Delete a conversation",
				"produces": [
					"application/json"
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"429": {
						"description": "Rate limit exceeded",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Conversation ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/notes": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"tags": [
					"notes"
				],
				"summary": "List notes",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/handlers.NoteResponse"
							}
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"429": {
						"description": "Rate limit exceeded",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			},
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"tags": [
					"notes"
				],
				"summary": "Create a note",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.NoteResponse"
						}
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"429": {
						"description": "Rate limit exceeded",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.CreateNoteRequest"
						}
					}
				]
			}
		},
		"/notes/{id}": {
			"patch": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"tags": [
					"notes"
				],
				"summary": "Edit, move or retag a note",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.NoteResponse"
						}
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"429": {
						"description": "Rate limit exceeded",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Note ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.UpdateNoteRequest"
						}
					}
				]
			},
			"delete": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"tags": [
					"notes"
				],
				"summary": "Delete a note and its descendants",
				"produces": [
					"application/json"
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"429": {
						"description": "Rate limit exceeded",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Note ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/notes/summarize": {
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"tags": [
					"notes"
				],
				"summary": "Summarize a conversation into a note",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/services.GeneratedNote"
						}
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"429": {
						"description": "Rate limit exceeded",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.ConversationRefRequest"
						}
					}
				]
			}
		},
		"/notes/combine": {
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"tags": [
					"notes"
				],
				"summary": "Merge 2 to 7 notes into a new note",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/services.GeneratedNote"
						}
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"429": {
						"description": "Rate limit exceeded",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.CombineNotesRequest"
						}
					}
				]
			}
		},
		"/tags": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"tags": [
					"tags"
				],
				"summary": "List tags",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/handlers.TagResponse"
							}
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"429": {
						"description": "Rate limit exceeded",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			},
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"tags": [
					"tags"
				],
				"summary": "Create a tag",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.TagResponse"
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"429": {
						"description": "Rate limit exceeded",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.CreateTagRequest"
						}
					}
				]
			}
		},
		"/tags/{id}": {
			"patch": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"tags": [
					"tags"
				],
				"summary": "Rename or recolor a tag",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.TagResponse"
						}
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"429": {
						"description": "Rate limit exceeded",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Tag ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.UpdateTagRequest"
						}
					}
				]
			},
			"delete": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"tags": [
					"tags"
				],
				"summary": "Delete a tag and its associations",
				"produces": [
					"application/json"
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"429": {
						"description": "Rate limit exceeded",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Tag ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/folders": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"tags": [
					"folders"
				],
				"summary": "List folders",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/handlers.FolderResponse"
							}
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"429": {
						"description": "Rate limit exceeded",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			},
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"tags": [
					"folders"
				],
				"summary": "Create a folder",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.FolderResponse"
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"429": {
						"description": "Rate limit exceeded",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.FolderRequest"
						}
					}
				]
			}
		},
		"/folders/{id}": {
			"patch": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"tags": [
					"folders"
				],
				"summary": "Rename a folder",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.FolderResponse"
						}
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"429": {
						"description": "Rate limit exceeded",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Folder ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.FolderRequest"
						}
					}
				]
			},
			"delete": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"tags": [
					"folders"
				],
				"summary": "Delete a folder",
				"produces": [
					"application/json"
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"404": {
						"description": "Not found",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"429": {
						"description": "Rate limit exceeded",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Folder ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/settings": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"tags": [
					"settings"
				],
				"summary": "Get user settings",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.SettingsResponse"
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"429": {
						"description": "Rate limit exceeded",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				}
			},
			"put": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"tags": [
					"settings"
				],
				"summary": "Set the default AI tool",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/handlers.SettingsResponse"
						}
					},
					"400": {
						"description": "Invalid request",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					},
					"429": {
						"description": "Rate limit exceeded",
						"schema": {
							"$ref": "#/definitions/errors.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "Request body",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.SettingsRequest"
						}
					}
				]
			}
		}
	},
	"definitions": {
		"errors.ErrorResponse": {
			"type": "object",
			"properties": {
				"error": {
					"type": "boolean"
				},
				"type": {
					"type": "string"
				},
				"message": {
					"type": "string"
				},
				"code": {
					"type": "string"
				},
				"details": {
					"type": "object",
					"additionalProperties": true
				},
				"request_id": {
					"type": "string"
				},
				"trace_id": {
					"type": "string"
				}
			}
		},
		"handlers.SubmitTurnRequest": {
			"type": "object",
			"required": [
				"prompt"
			],
			"properties": {
				"prompt": {
					"type": "string",
					"maxLength": 1200,
					"description": "At most 150 words"
				},
				"conversationId": {
					"type": "string",
					"format": "uuid"
				},
				"aiTool": {
					"type": "string",
					"enum": [
						"GEMINI",
						"CHATGPT",
						"GROK"
					]
				},
				"bypassGate": {
					"type": "boolean"
				}
			}
		},
		"services.TurnResult": {
			"type": "object",
			"properties": {
				"status": {
					"type": "string",
					"enum": [
						"success",
						"suggestion"
					]
				},
				"content": {
					"type": "string"
				},
				"reasoning": {
					"type": "string"
				},
				"conversationId": {
					"type": "string"
				},
				"messageId": {
					"type": "string"
				},
				"responseCount": {
					"type": "integer"
				},
				"hasReachedLimit": {
					"type": "boolean"
				},
				"canOfferWhatNext": {
					"type": "boolean"
				}
			}
		},
		"handlers.ConversationResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"title": {
					"type": "string"
				},
				"aiTool": {
					"type": "string",
					"enum": [
						"GEMINI",
						"CHATGPT",
						"GROK"
					]
				},
				"folderId": {
					"type": "string"
				},
				"createdAt": {
					"type": "string"
				},
				"updatedAt": {
					"type": "string"
				}
			}
		},
		"handlers.MessageResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"role": {
					"type": "string",
					"enum": [
						"user",
						"assistant",
						"system"
					]
				},
				"type": {
					"type": "string",
					"enum": [
						"text",
						"suggestion",
						"response"
					]
				},
				"content": {
					"type": "string"
				},
				"metadata": {
					"type": "object",
					"additionalProperties": true
				},
				"createdAt": {
					"type": "string"
				}
			}
		},
		"handlers.ConversationDetailResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"title": {
					"type": "string"
				},
				"aiTool": {
					"type": "string",
					"enum": [
						"GEMINI",
						"CHATGPT",
						"GROK"
					]
				},
				"folderId": {
					"type": "string"
				},
				"createdAt": {
					"type": "string"
				},
				"updatedAt": {
					"type": "string"
				},
				"messages": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/handlers.MessageResponse"
					}
				},
				"tagIds": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"responseCount": {
					"type": "integer"
				},
				"hasReachedLimit": {
					"type": "boolean"
				},
				"canOfferWhatNext": {
					"type": "boolean"
				}
			}
		},
		"handlers.UpdateConversationRequest": {
			"type": "object",
			"properties": {
				"title": {
					"type": "string",
					"maxLength": 200,
					"minLength": 1
				},
				"folderId": {
					"type": "string",
					"description": "Empty string detaches"
				},
				"tagIds": {
					"type": "array",
					"items": {
						"type": "string"
					}
				}
			}
		},
		"handlers.EvaluateRequest": {
			"type": "object",
			"required": [
				"conversationId"
			],
			"properties": {
				"conversationId": {
					"type": "string",
					"format": "uuid"
				},
				"messageId": {
					"type": "string",
					"format": "uuid"
				}
			}
		},
		"handlers.EvaluateResponse": {
			"type": "object",
			"properties": {
				"suggestion": {
					"type": "string"
				},
				"reasoning": {
					"type": "string"
				}
			}
		},
		"handlers.ConversationRefRequest": {
			"type": "object",
			"required": [
				"conversationId"
			],
			"properties": {
				"conversationId": {
					"type": "string",
					"format": "uuid"
				}
			}
		},
		"handlers.ContinueResponse": {
			"type": "object",
			"properties": {
				"new_prompt": {
					"type": "string"
				}
			}
		},
		"handlers.CreateNoteRequest": {
			"type": "object",
			"required": [
				"content"
			],
			"properties": {
				"content": {
					"type": "string",
					"maxLength": 1200,
					"description": "At most 150 words"
				},
				"parentId": {
					"type": "string",
					"format": "uuid"
				},
				"tagIds": {
					"type": "array",
					"items": {
						"type": "string"
					}
				}
			}
		},
		"handlers.UpdateNoteRequest": {
			"type": "object",
			"properties": {
				"content": {
					"type": "string",
					"maxLength": 1200
				},
				"parentId": {
					"type": "string",
					"description": "Empty string moves to the root"
				},
				"tagIds": {
					"type": "array",
					"items": {
						"type": "string"
					}
				}
			}
		},
		"handlers.NoteResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"parentId": {
					"type": "string"
				},
				"content": {
					"type": "string"
				},
				"tagIds": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"createdAt": {
					"type": "string"
				},
				"updatedAt": {
					"type": "string"
				}
			}
		},
		"handlers.CombineNotesRequest": {
			"type": "object",
			"required": [
				"noteIds"
			],
			"properties": {
				"noteIds": {
					"type": "array",
					"minItems": 2,
					"maxItems": 7,
					"items": {
						"type": "string"
					}
				}
			}
		},
		"services.GeneratedNote": {
			"type": "object",
			"properties": {
				"noteId": {
					"type": "string"
				},
				"content": {
					"type": "string"
				}
			}
		},
		"handlers.CreateTagRequest": {
			"type": "object",
			"required": [
				"name",
				"color"
			],
			"properties": {
				"name": {
					"type": "string",
					"maxLength": 50,
					"minLength": 1
				},
				"color": {
					"type": "string",
					"pattern": "^#[0-9A-Fa-f]{6}$"
				}
			}
		},
		"handlers.UpdateTagRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string",
					"maxLength": 50,
					"minLength": 1
				},
				"color": {
					"type": "string",
					"pattern": "^#[0-9A-Fa-f]{6}$"
				}
			}
		},
		"handlers.TagResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"color": {
					"type": "string"
				},
				"createdAt": {
					"type": "string"
				}
			}
		},
		"handlers.FolderRequest": {
			"type": "object",
			"required": [
				"name"
			],
			"properties": {
				"name": {
					"type": "string",
					"maxLength": 100,
					"minLength": 1
				}
			}
		},
		"handlers.FolderResponse": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"name": {
					"type": "string"
				},
				"createdAt": {
					"type": "string"
				},
				"updatedAt": {
					"type": "string"
				}
			}
		},
		"handlers.SettingsRequest": {
			"type": "object",
			"required": [
				"defaultAiTool"
			],
			"properties": {
				"defaultAiTool": {
					"type": "string",
					"enum": [
						"GEMINI",
						"CHATGPT",
						"GROK"
					]
				}
			}
		},
		"handlers.SettingsResponse": {
			"type": "object",
			"properties": {
				"defaultAiTool": {
					"type": "string",
					"enum": [
						"GEMINI",
						"CHATGPT",
						"GROK"
					]
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"description": "Type \"Bearer\" followed by a space and the access token",
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "TweetBloom API",
	Description:      "Bounded AI conversations and a nested note hierarchy.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
