package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Abraxas-365/hirehub/pkg/config"
	"github.com/Abraxas-365/hirehub/pkg/iam/auth"
)

// runIssueToken prints an operator token for the given role:
//
//	hirehub issue-token -user alice -role recruiter
func runIssueToken(cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("issue-token", flag.ContinueOnError)
	user := fs.String("user", "", "operator id placed in the token subject")
	role := fs.String("role", "viewer", "scope group: admin, recruiter or viewer")
	ttl := fs.Duration("ttl", cfg.OperatorTokenTTL, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *user == "" {
		fmt.Fprintln(os.Stderr, "issue-token: -user is required")
		return 2
	}
	scopes := auth.ScopesForRole(*role)
	if len(scopes) == 0 {
		fmt.Fprintf(os.Stderr, "issue-token: unknown role %q\n", *role)
		return 2
	}
	if cfg.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "issue-token: JWT_SECRET must be set")
		return 1
	}

	token, err := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer).
		GenerateAccessToken(*user, auth.SubjectOperator, scopes, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue-token: %v\n", err)
		return 1
	}
	fmt.Println(token)
	return 0
}
