// cmd/alnnames/main.go
package main

import (
	"alnnames/internal/app"
	"alnnames/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
