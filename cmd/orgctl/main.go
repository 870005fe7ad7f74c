// Command orgctl administers organization configuration from the shell.
package main

import "orgconfig/cmd/orgctl/commands"

func main() {
	commands.Execute()
}
