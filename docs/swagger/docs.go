// Package swagger holds the OpenAPI document served under /swagger/. It
// follows the layout swag init emits, so regenerating from the annotations in
// internal/server replaces it in place.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "m3u8relay Maintainers",
            "url": "https://github.com/raysh454/m3u8relay"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/fetch-m3u8": {
            "post": {
                "description": "Issues one GET against url with a browser User-Agent and the optional referer, and returns the body unchanged.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "relay"
                ],
                "summary": "Fetch a remote playlist through the relay",
                "parameters": [
                    {
                        "description": "Playlist to fetch",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/server.FetchRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/server.FetchResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/server.ErrorResponse"
                        }
                    },
                    "405": {
                        "description": "Method Not Allowed",
                        "schema": {
                            "$ref": "#/definitions/server.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/server.ErrorResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "server.ErrorResponse": {
            "type": "object",
            "properties": {
                "details": {
                    "type": "string",
                    "example": "HTTP 404: Not Found"
                },
                "error": {
                    "type": "string",
                    "example": "Failed to fetch M3U8 file"
                }
            }
        },
        "server.FetchRequest": {
            "type": "object",
            "properties": {
                "referer": {
                    "type": "string",
                    "example": "https://player.example.com/"
                },
                "url": {
                    "type": "string",
                    "example": "https://cdn.example.com/live/index.m3u8"
                }
            }
        },
        "server.FetchResponse": {
            "type": "object",
            "properties": {
                "content": {
                    "type": "string",
                    "example": "#EXTM3U\n#EXT-X-VERSION:3\n"
                },
                "contentType": {
                    "type": "string",
                    "example": "application/vnd.apple.mpegurl"
                },
                "success": {
                    "type": "boolean",
                    "example": true
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "M3U8 Relay API",
	Description:      "Server-side relay that fetches remote playlists on behalf of browser clients.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
