package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Uni Attend API",
        "description": "QR-based attendance backend for programs, sections, courses and enrollments",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Auth", "description": "Login and token introspection"},
        {"name": "Registration", "description": "Account creation with generated IDs"},
        {"name": "Students", "description": "Admin student roster"},
        {"name": "Teachers", "description": "Admin teacher roster"},
        {"name": "Catalog", "description": "Programs, sections and courses"},
        {"name": "Enrollments", "description": "Student ↔ course enrollment"},
        {"name": "Attendance", "description": "QR sessions and scans"},
        {"name": "Reports", "description": "Async session exports"},
        {"name": "Stats", "description": "Dashboard aggregates"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Login",
                "responses": {
                    "200": {"description": "Access token issued"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/verify": {
            "get": {
                "tags": ["Auth"],
                "summary": "Verify token",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Token is valid"}}
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current user",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Caller identity"}}
            }
        },
        "/register/student": {
            "post": {
                "tags": ["Registration"],
                "summary": "Register student",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Student created with generated ID"},
                    "409": {"description": "Username taken"}
                }
            }
        },
        "/register/teacher": {
            "post": {
                "tags": ["Registration"],
                "summary": "Register teacher",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Teacher created with generated ID"}}
            }
        },
        "/register/admin": {
            "post": {
                "tags": ["Registration"],
                "summary": "Register admin",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Admin created"}}
            }
        },
        "/admin/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Filtered roster page"}}
            }
        },
        "/admin/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Student detail"}, "404": {"description": "Unknown student"}}
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update student",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Updated detail"}}
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete student",
                "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/admin/teachers": {
            "get": {
                "tags": ["Teachers"],
                "summary": "List teachers",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Teacher roster"}}
            }
        },
        "/admin/teachers/{id}": {
            "get": {
                "tags": ["Teachers"],
                "summary": "Get teacher",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Teacher detail"}}
            },
            "delete": {
                "tags": ["Teachers"],
                "summary": "Delete teacher",
                "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/admin/stats": {
            "get": {
                "tags": ["Stats"],
                "summary": "Admin statistics",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Dashboard aggregates"}}
            }
        },
        "/programs": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Create program",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Program created"}}
            },
            "get": {
                "tags": ["Catalog"],
                "summary": "List programs",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Programs"}}
            }
        },
        "/sections": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Create section",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Section created"}}
            },
            "get": {
                "tags": ["Catalog"],
                "summary": "List sections",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Sections"}}
            }
        },
        "/sections/{id}": {
            "put": {
                "tags": ["Catalog"],
                "summary": "Update section",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Updated section"}}
            },
            "delete": {
                "tags": ["Catalog"],
                "summary": "Delete section",
                "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/courses": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Create course",
                "security": [{"BearerAuth": []}],
                "responses": {"201": {"description": "Course created"}}
            },
            "get": {
                "tags": ["Catalog"],
                "summary": "List courses",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Courses"}}
            }
        },
        "/courses/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get course",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Course detail"}}
            },
            "put": {
                "tags": ["Catalog"],
                "summary": "Update course",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Updated course"}}
            },
            "delete": {
                "tags": ["Catalog"],
                "summary": "Delete course",
                "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/courses/{id}/enrollments": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "List course enrollments",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Enrollments"}}
            }
        },
        "/students/{id}/enrollments": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "List student enrollments",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Enrollments"}}
            }
        },
        "/enrollments": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Enroll student",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Enrolled with zeroed grades"},
                    "403": {"description": "Already enrolled"}
                }
            }
        },
        "/attendance/sessions": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Open attendance session",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Session with QR code"},
                    "400": {"description": "Invalid window"}
                }
            }
        },
        "/attendance/sessions/{id}": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Get attendance session",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Session"}}
            }
        },
        "/attendance/sessions/{id}/remaining": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Remaining scan time",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Seconds remaining"},
                    "403": {"description": "Window closed"}
                }
            }
        },
        "/attendance/sessions/{id}/scans": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List session scans",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Per-student scan rows"}}
            }
        },
        "/attendance/sessions/{id}/report": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue session report",
                "security": [{"BearerAuth": []}],
                "responses": {"202": {"description": "Job accepted"}}
            }
        },
        "/attendance/scan": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Record a scan",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Scan recorded"},
                    "403": {"description": "Already scanned or window expired"}
                }
            }
        },
        "/reports/{jobID}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Report job status",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Job state"}}
            }
        },
        "/reports/download": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download report",
                "responses": {
                    "200": {"description": "Report file"},
                    "403": {"description": "Bad or expired token"}
                }
            }
        },
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {"200": {"description": "Ready"}}
            }
        }
    },
    "definitions": {
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
