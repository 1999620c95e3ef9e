package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>devcamper-api Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "devcamper-api", "version": "v1.0.0" },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } }
  },
  "paths": {
    "/api/v1/bootcamps": {
      "get": {
        "summary": "List bootcamps with filtering, select, sort and pagination",
        "parameters": [
          { "name": "select", "in": "query", "schema": { "type": "string" } },
          { "name": "sort", "in": "query", "schema": { "type": "string" } },
          { "name": "page", "in": "query", "schema": { "type": "integer" } },
          { "name": "limit", "in": "query", "schema": { "type": "integer" } }
        ],
        "responses": { "200": { "description": "success, count, pagination, data" } }
      },
      "post": {
        "summary": "Create a bootcamp",
        "security": [ { "bearer": [] } ],
        "responses": { "201": { "description": "created" }, "400": { "description": "validation failed, already published or duplicate name" }, "401": { "description": "not authorized" } }
      }
    },
    "/api/v1/bootcamps/{id}": {
      "get": { "summary": "Get a bootcamp", "responses": { "200": { "description": "bootcamp" }, "404": { "description": "not found" } } },
      "put": { "summary": "Update a bootcamp", "security": [ { "bearer": [] } ], "responses": { "200": { "description": "updated" }, "401": { "description": "not the owner" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete a bootcamp and its courses", "security": [ { "bearer": [] } ], "responses": { "200": { "description": "deleted" }, "401": { "description": "not the owner" }, "404": { "description": "not found" } } }
    },
    "/api/v1/bootcamps/radius/{zipcode}/{distance}": {
      "get": { "summary": "Bootcamps within distance miles of a zipcode", "responses": { "200": { "description": "success, count, data" }, "400": { "description": "bad distance or zipcode" } } }
    },
    "/api/v1/bootcamps/{id}/photo": {
      "put": {
        "summary": "Upload a bootcamp photo",
        "security": [ { "bearer": [] } ],
        "requestBody": { "content": { "multipart/form-data": { "schema": { "type": "object", "properties": { "file": { "type": "string", "format": "binary" } } } } } },
        "responses": { "200": { "description": "stored file name" }, "400": { "description": "missing, non-image or oversized file" } }
      }
    },
    "/api/v1/bootcamps/{id}/courses": {
      "get": { "summary": "Courses of a bootcamp", "responses": { "200": { "description": "success, count, data" } } },
      "post": { "summary": "Add a course to a bootcamp", "security": [ { "bearer": [] } ], "responses": { "201": { "description": "created" }, "401": { "description": "not the bootcamp owner" }, "404": { "description": "no bootcamp" } } }
    },
    "/api/v1/courses": {
      "get": { "summary": "List courses with filtering, select, sort and pagination", "responses": { "200": { "description": "success, count, pagination, data" } } }
    },
    "/api/v1/courses/{id}": {
      "get": { "summary": "Get a course", "responses": { "200": { "description": "course" }, "404": { "description": "not found" } } },
      "put": { "summary": "Update a course", "security": [ { "bearer": [] } ], "responses": { "200": { "description": "updated" }, "401": { "description": "not the bootcamp owner" } } },
      "delete": { "summary": "Delete a course", "security": [ { "bearer": [] } ], "responses": { "200": { "description": "deleted" }, "401": { "description": "not the bootcamp owner" } } }
    },
    "/api/v1/auth/me": {
      "get": { "summary": "Get user info", "security": [ { "bearer": [] } ], "responses": { "200": { "description": "user or claims" } } }
    },
    "/api/v1/auth/logout": {
      "post": { "summary": "Revoke the presented access token", "security": [ { "bearer": [] } ], "responses": { "200": { "description": "logged out" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
