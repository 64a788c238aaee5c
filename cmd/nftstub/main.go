package main

import (
	"fmt"
	"log"
	"os"

	"github.com/jessevdk/go-flags"
)

func main() {
	opts := &Options{}
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.CommandHandler = func(command flags.Commander, args []string) error {
		if command == nil {
			return nil
		}
		if aware, ok := command.(optionsAware); ok {
			aware.setOptions(opts)
		}
		return command.Execute(args)
	}
	if _, err := parser.ParseArgs(os.Args[1:]); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			fmt.Println(flagsErr.Message)
			os.Exit(0)
		}
		log.Fatalf("%v", err)
	}
}
