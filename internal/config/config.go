// Package config handles loading and validating board automation
// configuration files.
//
// A configuration file is YAML with three sections: general (project
// coordinates and label filters), actions (which of remove/add/move/sort are
// enabled), and columns (per-column match rules). Unknown keys anywhere are
// load-time errors, as is a rule path outside the permitted set or a column
// section not listed in column_names: a broken configuration aborts its own
// run before any remote call is made.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/avern/cardboard/internal/domain"
	"github.com/avern/cardboard/internal/rules"
)

// General holds the project coordinates and item filters.
type General struct {
	ProjectOwner   string `yaml:"project_owner"`
	RepositoryName string `yaml:"repository_name"`
	ProjectNumber  int    `yaml:"project_number"`
	IsOrgProject   bool   `yaml:"is_org_project"`

	ClosedIssuesColumn       string `yaml:"closed_issues_column"`
	MergedPullRequestsColumn string `yaml:"merged_pull_requests_column"`
	ClosedPullRequestsColumn string `yaml:"closed_pull_requests_column"`

	PriorityLabels  []string `yaml:"priority_labels"`
	FilterLabels    []string `yaml:"filter_labels"`
	FilterMilestone string   `yaml:"filter_milestone"`
	MustHaveLabels  []string `yaml:"must_have_labels"`
	CantHaveLabels  []string `yaml:"cant_have_labels"`

	ColumnNames []string `yaml:"column_names"`
	// ColumnRuleOrder is the rule evaluation order, first match wins.
	// Defaults to ColumnNames order.
	ColumnRuleOrder []string `yaml:"column_rule_order"`
}

// Actions gates the four synchronizer actions.
type Actions struct {
	Remove bool
	Add    bool
	Move   bool
	Sort   bool
}

// Rule is one raw (path, expected value) pair before compilation.
type Rule struct {
	Path  string `yaml:"path"`
	Value any    `yaml:"value"`
}

// ColumnRules names a column and its ordered rule list.
type ColumnRules struct {
	Name  string `yaml:"name"`
	Rules []Rule `yaml:"rules"`
}

// Config is a loaded, validated configuration. It is read-only after Load.
type Config struct {
	General General       `yaml:"general"`
	Actions Actions       `yaml:"-"`
	Columns []ColumnRules `yaml:"columns"`

	compiled map[string][]rules.Condition
}

// rawConfig is the on-disk shape; actions are a list of names.
type rawConfig struct {
	General General       `yaml:"general"`
	Actions []string      `yaml:"actions"`
	Columns []ColumnRules `yaml:"columns"`
}

// Load reads and validates a configuration file. Environment variables in the
// file body are expanded before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates configuration YAML.
func Parse(data []byte) (*Config, error) {
	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := &Config{General: raw.General, Columns: raw.Columns}
	if err := cfg.loadActions(raw.Actions); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := cfg.compileRules(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadActions(names []string) error {
	for _, name := range names {
		switch name {
		case "remove":
			c.Actions.Remove = true
		case "add":
			c.Actions.Add = true
		case "move":
			c.Actions.Move = true
		case "sort":
			c.Actions.Sort = true
		default:
			return fmt.Errorf("unknown action %q, the options are remove, add, move, sort", name)
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if len(c.General.PriorityLabels) == 0 {
		c.General.PriorityLabels = domain.DefaultPriorityLadder
	}
	if len(c.General.ColumnRuleOrder) == 0 {
		c.General.ColumnRuleOrder = c.General.ColumnNames
	}
}

func (c *Config) validate() error {
	if c.General.ProjectOwner == "" {
		return fmt.Errorf("general.project_owner is required")
	}
	if c.General.RepositoryName == "" && !c.General.IsOrgProject {
		return fmt.Errorf("general.repository_name is required for repository projects")
	}
	if c.General.ProjectNumber <= 0 {
		return fmt.Errorf("general.project_number must be a positive project number")
	}

	known := make(map[string]bool, len(c.General.ColumnNames))
	for _, name := range c.General.ColumnNames {
		known[name] = true
	}
	for _, name := range c.General.ColumnRuleOrder {
		if !known[name] {
			return fmt.Errorf("column_rule_order names %q which is not in column_names", name)
		}
	}
	for _, col := range c.Columns {
		if !known[col.Name] {
			return fmt.Errorf(
				"column %q has rules but is not listed in column_names; "+
					"check for a misspelled column section", col.Name)
		}
	}
	return nil
}

func (c *Config) compileRules() error {
	c.compiled = make(map[string][]rules.Condition, len(c.Columns))
	for _, col := range c.Columns {
		for _, rule := range col.Rules {
			cond, err := rules.Compile(rule.Path, rule.Value)
			if err != nil {
				return fmt.Errorf("column %q: %w", col.Name, err)
			}
			c.compiled[col.Name] = append(c.compiled[col.Name], cond)
		}
	}
	return nil
}

// CompiledRules returns the per-column compiled conditions, keyed by column
// name, in each column's configured rule order.
func (c *Config) CompiledRules() map[string][]rules.Condition {
	return c.compiled
}

// LabelFilter returns the board membership predicate.
func (c *Config) LabelFilter() domain.LabelFilter {
	return domain.LabelFilter{
		Filter:   c.General.FilterLabels,
		MustHave: c.General.MustHaveLabels,
		CantHave: c.General.CantHaveLabels,
	}
}

// ClosedColumns returns the set of columns holding terminal items; these are
// skipped by the remove and sort actions.
func (c *Config) ClosedColumns() map[string]bool {
	closed := make(map[string]bool, 3)
	for _, name := range []string{
		c.General.ClosedIssuesColumn,
		c.General.MergedPullRequestsColumn,
		c.General.ClosedPullRequestsColumn,
	} {
		if name != "" {
			closed[name] = true
		}
	}
	return closed
}

// KnownColumn reports whether name is one of the configured column names.
func (c *Config) KnownColumn(name string) bool {
	for _, n := range c.General.ColumnNames {
		if n == name {
			return true
		}
	}
	return false
}
