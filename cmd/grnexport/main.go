package main

import (
	"grnexport/internal/app"
	"grnexport/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
