package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Noor Academy Student Portal API",
        "description": "Student registration and results lookup service",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Search", "description": "Public student code lookup"},
        {"name": "Auth", "description": "Student and admin login"},
        {"name": "Feedback", "description": "Ticket intake and portal reviews"},
        {"name": "Students", "description": "Admin registration management"},
        {"name": "Analytics", "description": "Registration and revenue dashboard"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/api/health": {
            "get": {
                "summary": "Service health with backing-store connectivity",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/api/search": {
            "get": {
                "tags": ["Search"],
                "summary": "Describe the search endpoint",
                "responses": {
                    "200": {"description": "Usage payload"}
                }
            },
            "post": {
                "tags": ["Search"],
                "summary": "Search a student by code",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SearchRequest"}}
                ],
                "responses": {
                    "200": {"description": "Hit or user-facing failure", "schema": {"$ref": "#/definitions/SearchEnvelope"}},
                    "500": {"description": "Lookup source unavailable", "schema": {"$ref": "#/definitions/SearchEnvelope"}}
                }
            }
        },
        "/api/auth/student-login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate with a student code",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/api/feedback": {
            "post": {
                "tags": ["Feedback"],
                "summary": "Submit a feedback ticket",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/suggestion": {
            "post": {
                "tags": ["Feedback"],
                "summary": "Submit a suggestion",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/review": {
            "post": {
                "tags": ["Feedback"],
                "summary": "Submit a portal review",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List registered students",
                "parameters": [
                    {"name": "grade", "in": "query", "type": "string"},
                    {"name": "confirmed", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Register a new student",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/students/{id}": {
            "put": {
                "tags": ["Students"],
                "summary": "Update a registered student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/students/export": {
            "get": {
                "tags": ["Students"],
                "summary": "Download the student roster",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/api/analytics": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Registration and revenue summary",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/feedback/recent": {
            "get": {
                "tags": ["Feedback"],
                "summary": "Recent feedback tickets",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/feedback/stats": {
            "get": {
                "tags": ["Feedback"],
                "summary": "Feedback statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/feedback/{id}/respond": {
            "post": {
                "tags": ["Feedback"],
                "summary": "Respond to a feedback ticket",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        }
    },
    "definitions": {
        "SearchRequest": {
            "type": "object",
            "required": ["code"],
            "properties": {
                "code": {"type": "string", "example": "G4001"}
            }
        },
        "SearchEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {"type": "object"},
                "source": {"type": "string", "enum": ["unified", "legacy", "relational"]}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["code", "password"],
            "properties": {
                "code": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
