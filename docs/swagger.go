// Package docs provides Swagger documentation for the API.
package docs

// @title Ad Campaign Services API
// @version 1.0
// @description Campaign lifecycle management with multi-platform approval orchestration
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.adpilot.io/support
// @contact.email support@adpilot.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
