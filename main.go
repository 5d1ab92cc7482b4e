package main

import (
	"clipstream-service/app"
)

func main() {
	app.Run()
}
