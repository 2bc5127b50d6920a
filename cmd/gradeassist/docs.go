package main

// General API documentation for swaggo. Regenerate with `swag init -g cmd/gradeassist/docs.go -o docs`.
//
// @title           gradeassist API
// @version         1.0
// @description     Exam grading services: AI-text detection, answer similarity, photo extraction and grading.
//
// @contact.name   gradeassist maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
