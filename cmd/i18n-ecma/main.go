// i18n-ecma reads and writes locale files, including JavaScript and
// TypeScript locale modules.
package main

import "github.com/thirteen37/i18n-ecma/internal/cmd"

func main() {
	cmd.Execute()
}
