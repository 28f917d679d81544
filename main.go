package main

import (
	"github.com/squillaiugis/todo-app/cmd"
	"github.com/squillaiugis/todo-app/internal/logger"
)

func main() {
	defer logger.HandlePanic()
	cmd.Execute()
}
