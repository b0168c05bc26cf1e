// Command token issues an access token for an identity, signed with the
// server's JWT secret. It reads the same configuration sources as the server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/gophlocker/internal/flagx"
	"github.com/dmitrijs2005/gophlocker/internal/server/auth"
	"github.com/dmitrijs2005/gophlocker/internal/server/authority"
	"github.com/dmitrijs2005/gophlocker/internal/server/config"
)

func main() {

	cfg := config.LoadConfig()

	var subject string
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.StringVar(&subject, "subject", "", "identity to issue the token for")
	if err := fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-subject"})); err != nil {
		log.Fatal(err)
	}
	if subject == "" {
		log.Fatal("-subject is required")
	}
	if authority.IsDerived(subject) {
		log.Fatalf("subject must not start with %q", authority.Prefix)
	}

	tok, err := auth.GenerateToken(subject, []byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(tok)
}
