package main

import (
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var negativeNumber = regexp.MustCompile(`^-(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?$`)

// execute runs root with args after moving negative numbers out of the
// reach of the flag parser
func execute(root *cobra.Command, args []string) error {
	root.SetArgs(positionalNumbers(root, args))
	return root.Execute()
}

// positionalNumbers rewrites args so that negative numbers such as western
// longitudes reach commands as arguments instead of being parsed as
// shorthand flags. The command path and flags stay in front of a "--"
// terminator and the positional arguments follow it in their original order.
// Negative numbers given as flag values are left alone.
func positionalNumbers(root *cobra.Command, args []string) []string {
	cmd, _, err := root.Find(args)
	if err != nil {
		return args
	}
	lookup := func(token string) *pflag.Flag {
		name := strings.TrimLeft(token, "-")
		for _, fs := range []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags(), cmd.InheritedFlags()} {
			if strings.HasPrefix(token, "--") {
				if f := fs.Lookup(name); f != nil {
					return f
				}
			} else if len(name) == 1 {
				if f := fs.ShorthandLookup(name); f != nil {
					return f
				}
			}
		}
		return nil
	}

	var flags, positional []string
	escape := false
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			positional = append(positional, args[i+1:]...)
			i = len(args)
		case negativeNumber.MatchString(a):
			positional = append(positional, a)
			escape = true
		case strings.HasPrefix(a, "-") && len(a) > 1:
			flags = append(flags, a)
			if f := lookup(a); f != nil && f.NoOptDefVal == "" && !strings.Contains(a, "=") && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		default:
			positional = append(positional, a)
		}
	}
	if !escape {
		return args
	}

	path := strings.Fields(cmd.CommandPath())[1:]
	if len(positional) < len(path) {
		return args
	}
	for i, name := range path {
		if positional[i] != name {
			return args
		}
	}
	result := append([]string{}, path...)
	result = append(result, flags...)
	result = append(result, "--")
	return append(result, positional[len(path):]...)
}
