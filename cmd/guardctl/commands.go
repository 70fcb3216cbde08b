package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/inputguard/pkg/sanitizer"
)

type cleanResult struct {
	Original string             `json:"original"`
	Cleaned  string             `json:"cleaned"`
	Changed  bool               `json:"changed"`
	Families []sanitizer.Family `json:"families,omitempty"`
	Fallback bool               `json:"fallback,omitempty"`
}

func newCleanCmd(f *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clean [value...]",
		Short: "Escape and strip a value the way request parameters are sanitized",
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := inputValue(cmd, args)
			if err != nil {
				return err
			}

			res := cleanResult{Original: value}
			s := newSanitizer(cmd, f, sanitizer.WithReporters(sanitizer.ReporterFunc(func(_ context.Context, c sanitizer.Change) {
				res.Changed = true
				res.Families = c.Families
				res.Fallback = c.Fallback
			})))
			res.Cleaned = s.Clean(value)

			p := newPrinter(cmd.OutOrStdout(), f)
			if p.json {
				if err := p.encode(res); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(p.out, res.Cleaned)
			}
			return strictError(f, len(res.Families) == 0)
		},
	}
}

type checkResult struct {
	Value     string              `json:"value"`
	Safe      bool                `json:"safe"`
	Script    bool                `json:"script"`
	SQL       bool                `json:"sql"`
	Matched   map[string][]string `json:"matched,omitempty"`
	Dangerous bool                `json:"dangerous"`
}

func newCheckCmd(f *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check [value...]",
		Short: "Classify a value against the script and SQL injection rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := inputValue(cmd, args)
			if err != nil {
				return err
			}

			s := newSanitizer(cmd, f)
			lib := s.Library()
			res := checkResult{
				Value:     value,
				Script:    s.ContainsAttack(value),
				Dangerous: s.IsDangerous(value),
				Matched:   map[string][]string{},
			}
			res.SQL = res.Dangerous
			for _, fam := range lib.Matches(value) {
				res.Matched[string(fam)] = lib.MatchedRules(value, fam)
			}
			res.Safe = !res.Script && !res.SQL

			p := newPrinter(cmd.OutOrStdout(), f)
			if p.json {
				if err := p.encode(res); err != nil {
					return err
				}
				return strictError(f, res.Safe)
			}

			if res.Safe {
				p.verdict(true, "SAFE")
			} else {
				p.verdict(false, "ATTACK")
			}
			for _, fam := range []sanitizer.Family{sanitizer.FamilyScript, sanitizer.FamilySQL} {
				if rules, ok := res.Matched[string(fam)]; ok {
					p.field(string(fam), strings.Join(rules, ", "))
				}
			}
			return strictError(f, res.Safe)
		},
	}
}

type keywordResult struct {
	Keyword string `json:"keyword"`
	Verdict string `json:"verdict"`
	Safe    bool   `json:"safe"`
	Cleaned string `json:"cleaned"`
}

func newKeywordCmd(f *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "keyword [keyword...]",
		Short: "Check whether a search keyword may reach the query layer",
		RunE: func(cmd *cobra.Command, args []string) error {
			keyword, err := inputValue(cmd, args)
			if err != nil {
				return err
			}

			s := newSanitizer(cmd, f)
			kv := sanitizer.NewKeywordValidator(s, sanitizer.WithKeywordLogger(commandLogger(cmd, f)))
			verdict := kv.Verdict(keyword)
			res := keywordResult{
				Keyword: keyword,
				Verdict: string(verdict),
				Safe:    verdict == sanitizer.KeywordSafe,
				Cleaned: kv.CleanSearchKeyword(keyword),
			}

			p := newPrinter(cmd.OutOrStdout(), f)
			if p.json {
				if err := p.encode(res); err != nil {
					return err
				}
				return strictError(f, res.Safe)
			}
			p.verdict(res.Safe, res.Verdict)
			p.field("cleaned", res.Cleaned)
			return strictError(f, res.Safe)
		},
	}
}

type sortResult struct {
	Field     string `json:"field"`
	Direction string `json:"direction,omitempty"`
	Safe      bool   `json:"safe"`
}

func newSortCmd(f *globalFlags) *cobra.Command {
	var fields []string

	cmd := &cobra.Command{
		Use:   "sort <field> [direction]",
		Short: "Check a sort field and direction against the allow-list",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := sortResult{Field: args[0]}
			if len(args) > 1 {
				res.Direction = args[1]
			}

			s := newSanitizer(cmd, f)
			kv := sanitizer.NewKeywordValidator(s,
				sanitizer.WithSortFields(fields...),
				sanitizer.WithKeywordLogger(commandLogger(cmd, f)),
			)
			res.Safe = kv.IsSortParameterSafe(res.Field, res.Direction)

			p := newPrinter(cmd.OutOrStdout(), f)
			if p.json {
				if err := p.encode(res); err != nil {
					return err
				}
				return strictError(f, res.Safe)
			}
			if res.Safe {
				p.verdict(true, "ALLOWED")
			} else {
				p.verdict(false, "REJECTED")
			}
			return strictError(f, res.Safe)
		},
	}
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "allowed sort fields (default: built-in list)")
	return cmd
}
