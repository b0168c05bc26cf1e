// Package flagx lets several components parse their own subset of
// command-line flags from the same os.Args without tripping over each
// other's flags.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// ConfigFlags are the flag spellings that carry a JSON config file path.
var ConfigFlags = []string{"-c", "-config"}

// FilterArgs returns the subset of args that belong to allowedFlags, keeping
// each flag's value when it is passed as a separate argument.
//
// Both "-c conf.json" and "--config=conf.json" forms are recognized. A value
// is only consumed when the next token does not itself start with '-'.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, inline := strings.Cut(arg, "="); inline && strings.HasPrefix(arg, "-") {
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// JsonConfigFlags returns the config file path given via -c or -config,
// or an empty string when neither is present. The last occurrence wins.
func JsonConfigFlags() string {
	var config string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(os.Args[1:], ConfigFlags))

	return config
}
