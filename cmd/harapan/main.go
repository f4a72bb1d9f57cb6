// Command harapan signs in to the Harapan site from a terminal.
package main

import "harapan-web/internal/cli"

func main() {
	cli.Execute()
}
