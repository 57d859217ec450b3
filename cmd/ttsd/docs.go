package main

// General API documentation for swaggo. Run `make swagger-gen` to regenerate.
//
// @title           ttsd API
// @version         1.0
// @description     Fault-tolerant HTTP wrapper around an XTTS sidecar.
//
// @contact.name   ttsd maintainers
// @contact.url    https://github.com/your-org/ttsd
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
