// Package docs registers the OpenAPI description served under /swagger/.
// Keep it in sync with the handler annotations when routes change.
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
        "/healthz": {
            "get": {"tags": ["health"], "summary": "Liveness and database check", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Database unreachable"}}}
        },
        "/auth/login": {
            "post": {"tags": ["auth"], "summary": "Staff login", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {"200": {"description": "Bearer token"}, "400": {"description": "Bad request"}, "401": {"description": "Invalid credentials"}}}
        },
        "/events/{eventID}": {
            "get": {"tags": ["events"], "summary": "Get event", "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "eventID", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Event"}}, "404": {"description": "Not found"}}}
        },
        "/invitations/{invitationID}": {
            "get": {"tags": ["invitations"], "summary": "Get invitation for the RSVP page", "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "invitationID", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Invitation"}}, "404": {"description": "Not found"}}}
        },
        "/rsvp/new": {
            "get": {"tags": ["rsvp"], "summary": "Create a placeholder invitation and redirect to its RSVP page",
                "responses": {"302": {"description": "Redirect to the RSVP page"}}}
        },
        "/rsvp": {
            "post": {"tags": ["rsvp"], "summary": "Submit an RSVP for an invitation and start checkout", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RSVPRequest"}}],
                "responses": {"200": {"description": "Checkout session"}, "400": {"description": "Bad request"}, "404": {"description": "Invitation not found"}}}
        },
        "/rsvp/public": {
            "post": {"tags": ["rsvp"], "summary": "Submit a public RSVP and start checkout", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/RSVPRequest"}}],
                "responses": {"200": {"description": "Checkout session"}, "400": {"description": "Bad request"}}}
        },
        "/checkout": {
            "post": {"tags": ["checkout"], "summary": "Create a hosted checkout session for an invitation", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "Checkout session"}, "400": {"description": "Bad request"}, "404": {"description": "Not found"}}}
        },
        "/webhooks/stripe": {
            "post": {"tags": ["webhooks"], "summary": "Stripe webhook receiver", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "header", "name": "Stripe-Signature", "type": "string", "required": true}],
                "responses": {"200": {"description": "Acknowledged"}, "400": {"description": "Invalid signature"}, "413": {"description": "Body too large"}, "500": {"description": "Processing failed"}}}
        },
        "/tickets/{code}": {
            "get": {"tags": ["tickets"], "summary": "Ticket page with QR code", "produces": ["text/html"],
                "parameters": [{"in": "path", "name": "code", "type": "string", "required": true}],
                "responses": {"200": {"description": "HTML page"}, "404": {"description": "Not found"}}}
        },
        "/tickets/{code}/qr.png": {
            "get": {"tags": ["tickets"], "summary": "Ticket QR code image", "produces": ["image/png"],
                "parameters": [{"in": "path", "name": "code", "type": "string", "required": true}],
                "responses": {"200": {"description": "PNG image"}, "404": {"description": "Not found"}}}
        },
        "/admin/events": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "List events", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Create event", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Event"}}, "400": {"description": "Bad request"}, "401": {"description": "Unauthorized"}}}
        },
        "/admin/invitations": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "List invitations", "produces": ["application/json"],
                "parameters": [{"in": "query", "name": "page", "type": "integer"}, {"in": "query", "name": "page_size", "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Send invitation by email or SMS", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "Existing invitation"}, "201": {"description": "Created"}, "400": {"description": "Bad request"}, "401": {"description": "Unauthorized"}}}
        },
        "/admin/tickets": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "List tickets", "produces": ["application/json"],
                "parameters": [{"in": "query", "name": "page", "type": "integer"}, {"in": "query", "name": "page_size", "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Issue a ticket manually", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "Ticket"}, "400": {"description": "Bad request"}, "401": {"description": "Unauthorized"}}}
        },
        "/admin/tickets/verify": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Verify a ticket code at the door", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/VerifyRequest"}}],
                "responses": {"200": {"description": "Valid"}, "400": {"description": "Wrong event or already redeemed"}, "404": {"description": "Unknown code"}}}
        },
        "/admin/tickets/export": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Export tickets as a spreadsheet",
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "responses": {"200": {"description": "XLSX file"}, "401": {"description": "Unauthorized"}}}
        }
    },
    "definitions": {
        "LoginRequest": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "RSVPRequest": {"type": "object", "properties": {
            "invitation_id": {"type": "string"}, "consent": {"type": "boolean"}, "name": {"type": "string"},
            "birthdate": {"type": "string", "example": "1990-04-21"}, "phone": {"type": "string"}, "email": {"type": "string"}}},
        "VerifyRequest": {"type": "object", "properties": {"ticket_code": {"type": "string"}}},
        "Event": {"type": "object", "properties": {
            "id": {"type": "string"}, "name": {"type": "string"}, "date_time": {"type": "string"},
            "location": {"type": "string"}, "created_at": {"type": "string"}}},
        "Invitation": {"type": "object", "properties": {
            "id": {"type": "string"}, "event_id": {"type": "string"}, "email": {"type": "string"},
            "phone": {"type": "string"}, "used": {"type": "boolean"}, "created_at": {"type": "string"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Invite Ticketing API",
	Description:      "Invitations, RSVPs, hosted checkout, ticket issuance and door verification for a single event.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
