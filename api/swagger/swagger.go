package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Course Registration API",
        "description": "Elective course registration for second- and third-year students",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Catalog", "description": "Subject offerings per grade level"},
        {"name": "Access", "description": "Student and admin passphrase gates"},
        {"name": "Registrations", "description": "Selection validation and submission"},
        {"name": "Admin", "description": "Stored records, enrollment summary and downloads"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check with submission counters",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "Metrics in the Prometheus exposition format"}
                }
            }
        },
        "/api/v1/catalog": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List subject offerings",
                "parameters": [
                    {"name": "grade_level", "in": "query", "type": "string", "enum": ["second-year", "third-year"]}
                ],
                "responses": {
                    "200": {"description": "Offerings", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown grade level", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/access/token": {
            "post": {
                "tags": ["Access"],
                "summary": "Exchange a gate passphrase for a token",
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AccessRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Incorrect passphrase", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/access/me": {
            "get": {
                "tags": ["Access"],
                "summary": "Describe the current gate token",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Role and expiry", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/registrations/validate": {
            "post": {
                "tags": ["Registrations"],
                "summary": "Check a selection against the registration rules without saving it",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ValidateSelectionRequest"}}
                ],
                "responses": {
                    "200": {"description": "Verdict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid grade level, unknown or repeated subject codes", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/registrations": {
            "post": {
                "tags": ["Registrations"],
                "summary": "Submit a course selection",
                "description": "Replaces any earlier submission by the same student for the same grade level. Only subjects of the submitted grade level are stored.",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitSelectionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Stored", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Missing identity fields, unknown or repeated subject codes", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Selection breaks a registration rule; error.details.rule names it", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Store write failed; earlier data unchanged", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/admin/records": {
            "get": {
                "tags": ["Admin"],
                "summary": "List stored submission rows",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "student_id", "in": "query", "type": "string"},
                    {"name": "grade_level", "in": "query", "type": "string"},
                    {"name": "term", "in": "query", "type": "string"},
                    {"name": "major_only", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Records", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Admin"],
                "summary": "Replace the whole record table with an edited copy",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReplaceRecordsRequest"}}
                ],
                "responses": {
                    "200": {"description": "Saved", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "A row lacks student_id or student_name", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Store write failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/admin/summary": {
            "get": {
                "tags": ["Admin"],
                "summary": "Per-subject enrollment counts",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "grade_level", "in": "query", "type": "string"},
                    {"name": "term", "in": "query", "type": "string"},
                    {"name": "major_only", "in": "query", "type": "boolean"},
                    {"name": "group_by_major", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "Counts; meta.total is their sum", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/admin/exports/records": {
            "get": {
                "tags": ["Admin"],
                "summary": "Download every stored row as CSV",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "UTF-8 CSV with byte order mark"}
                }
            }
        },
        "/api/v1/admin/exports/summary": {
            "get": {
                "tags": ["Admin"],
                "summary": "Download the enrollment summary",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "grade_level", "in": "query", "type": "string"},
                    {"name": "term", "in": "query", "type": "string"},
                    {"name": "major_only", "in": "query", "type": "boolean"},
                    {"name": "group_by_major", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "Summary file"}
                }
            }
        }
    },
    "definitions": {
        "AccessRequest": {
            "type": "object",
            "required": ["role", "passphrase"],
            "properties": {
                "role": {"type": "string", "enum": ["STUDENT", "ADMIN"]},
                "passphrase": {"type": "string"}
            }
        },
        "ValidateSelectionRequest": {
            "type": "object",
            "required": ["grade_level"],
            "properties": {
                "grade_level": {"type": "string", "enum": ["second-year", "third-year"]},
                "subject_codes": {"type": "array", "items": {"type": "string"}}
            }
        },
        "SubmitSelectionRequest": {
            "type": "object",
            "required": ["student_id", "student_name", "grade_level"],
            "properties": {
                "student_id": {"type": "string"},
                "student_name": {"type": "string"},
                "grade_level": {"type": "string", "enum": ["second-year", "third-year"]},
                "subject_codes": {"type": "array", "items": {"type": "string"}}
            }
        },
        "SubmissionRecord": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "student_name": {"type": "string"},
                "grade_level": {"type": "string"},
                "subject_title": {"type": "string"},
                "credits": {"type": "integer"},
                "term": {"type": "string"},
                "subject_area": {"type": "string"},
                "track_type": {"type": "string"},
                "is_major": {"type": "boolean"},
                "submitted_at": {"type": "string", "example": "2025-03-02 09:30:00"}
            }
        },
        "ReplaceRecordsRequest": {
            "type": "object",
            "properties": {
                "records": {"type": "array", "items": {"$ref": "#/definitions/SubmissionRecord"}}
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
                "status": {"type": "integer"},
                "details": {"type": "object"}
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
