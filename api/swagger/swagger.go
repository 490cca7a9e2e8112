package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Blood Bank API",
        "description": "Donor registry, donation intake, stock reporting and request fulfillment",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Dashboard", "description": "Headline donor and stock counts"},
        {"name": "Donors", "description": "Donor registry"},
        {"name": "Donations", "description": "Donation session intake"},
        {"name": "Reports", "description": "Stock and eligibility reporting"},
        {"name": "Requests", "description": "Blood request fulfillment"},
        {"name": "Exports", "description": "Asynchronous dataset exports"}
    ],
    "paths": {
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Headline donor and stock counts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/donors": {
            "get": {
                "tags": ["Donors"],
                "summary": "List registered donors",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "bloodGroup", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"},
                    {"name": "sortBy", "in": "query", "type": "string"},
                    {"name": "sortOrder", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Donors"],
                "summary": "Register a new donor",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterDonorRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Phone already registered"}
                }
            }
        },
        "/donors/{id}": {
            "get": {
                "tags": ["Donors"],
                "summary": "Donor details",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/donors/{id}/bags": {
            "get": {
                "tags": ["Donors"],
                "summary": "Blood bags collected from a donor",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/donations/staff": {
            "get": {
                "tags": ["Donations"],
                "summary": "Active staff available to record sessions",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/donations": {
            "post": {
                "tags": ["Donations"],
                "summary": "Record a donation session (max 3 units)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordDonationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unit cap exceeded or invalid payload"}
                }
            }
        },
        "/reports/stock": {
            "get": {
                "tags": ["Reports"],
                "summary": "Available units per blood group",
                "parameters": [
                    {"name": "bloodGroup", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/eligible-donors": {
            "get": {
                "tags": ["Reports"],
                "summary": "Donors eligible to donate again",
                "parameters": [
                    {"name": "bloodGroup", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/requests": {
            "post": {
                "tags": ["Requests"],
                "summary": "Register a blood request and decide it immediately",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBloodRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/requests/{id}": {
            "get": {
                "tags": ["Requests"],
                "summary": "Blood request details",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/requests/{id}/fulfill": {
            "post": {
                "tags": ["Requests"],
                "summary": "Decide a pending blood request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Request already decided"}
                }
            }
        },
        "/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue an asynchronous dataset export",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/download/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a finished export via signed token",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"},
                    "403": {"description": "Invalid or expired token"}
                }
            }
        }
    },
    "definitions": {
        "RegisterDonorRequest": {
            "type": "object",
            "required": ["first_name", "last_name", "birth_date", "gender", "phone", "blood_group"],
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "birth_date": {"type": "string", "format": "date-time"},
                "gender": {"type": "string", "enum": ["M", "F", "O"]},
                "phone": {"type": "string"},
                "blood_group": {"type": "string"}
            }
        },
        "RecordDonationRequest": {
            "type": "object",
            "required": ["donor_id", "staff_id", "units"],
            "properties": {
                "donor_id": {"type": "string"},
                "staff_id": {"type": "string"},
                "units": {"type": "integer", "minimum": 1, "maximum": 3},
                "donation_date": {"type": "string", "format": "date-time"}
            }
        },
        "CreateBloodRequest": {
            "type": "object",
            "required": ["recipient_name", "hospital_name", "blood_group", "units_requested"],
            "properties": {
                "recipient_name": {"type": "string"},
                "hospital_name": {"type": "string"},
                "blood_group": {"type": "string"},
                "units_requested": {"type": "integer", "minimum": 1}
            }
        },
        "ExportRequest": {
            "type": "object",
            "required": ["type", "format"],
            "properties": {
                "type": {"type": "string", "enum": ["donors", "stock", "eligible_donors"]},
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "blood_group": {"type": "string"}
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
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalCount": {"type": "integer"}
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
