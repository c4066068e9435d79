// Command asciipinyin manages a Chinese character and variant dictionary.
package main

import (
	"os"

	"github.com/pmachovec/asciipinyin/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
