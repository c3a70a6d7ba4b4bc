package workflows

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/wfops/wfops/internal/core/domain"
	"github.com/wfops/wfops/internal/core/ports"
	"gopkg.in/yaml.v3"
)

// Rule identifiers attached to findings.
const (
	RuleTrigger = "trigger"
	RuleJobs    = "jobs"
	RuleJobID   = "job-id"
	RuleRunner  = "runner"
	RuleNeeds   = "needs"
)

// jobIDPattern is the identifier shape GitHub accepts for job keys.
var jobIDPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_-]*$`)

var _ ports.WorkflowValidator = (*Validator)(nil)

// Validator checks the structural rules every runnable workflow file
// satisfies. It inspects the YAML document tree directly: an unquoted
// `on` key resolves as a boolean under YAML 1.1, so decoding into a
// struct would miss the trigger section.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate parses path and returns one finding per violated rule, in
// document order.
func (v *Validator) Validate(path string) ([]domain.Finding, error) {
	// #nosec G304 -- paths come from workflow discovery
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(domain.ErrWorkflowReadFailed, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Join(domain.ErrWorkflowParseFailed, err)
	}

	root := documentRoot(&doc)
	var findings []domain.Finding
	add := func(rule, message string) {
		findings = append(findings, domain.Finding{Path: path, Rule: rule, Message: message})
	}

	if trigger := mappingValue(root, "on"); trigger == nil || isNull(trigger) {
		add(RuleTrigger, "workflow declares no trigger")
	}

	jobs := mappingValue(root, "jobs")
	if jobs == nil || jobs.Kind != yaml.MappingNode || len(jobs.Content) == 0 {
		add(RuleJobs, "workflow declares no jobs")
		return findings, nil
	}

	ids := jobIDs(jobs)
	for i := 0; i+1 < len(jobs.Content); i += 2 {
		id, job := jobs.Content[i].Value, jobs.Content[i+1]

		if !jobIDPattern.MatchString(id) {
			add(RuleJobID, fmt.Sprintf("job id %q must start with a letter or underscore and use only alphanumerics, hyphens and underscores", id))
		}
		if mappingValue(job, "runs-on") == nil && mappingValue(job, "uses") == nil {
			add(RuleRunner, fmt.Sprintf("job %q declares neither runs-on nor uses", id))
		}
		for _, ref := range needsRefs(job) {
			if !ids[ref] {
				add(RuleNeeds, fmt.Sprintf("job %q needs undefined job %q", id, ref))
			}
		}
	}

	return findings, nil
}

// documentRoot unwraps the document node. An empty file has none.
func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0]
	}
	return nil
}

// mappingValue returns the value for key, comparing raw key text so the
// boolean forms of `on` still match.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

func jobIDs(jobs *yaml.Node) map[string]bool {
	ids := make(map[string]bool, len(jobs.Content)/2)
	for i := 0; i+1 < len(jobs.Content); i += 2 {
		ids[jobs.Content[i].Value] = true
	}
	return ids
}

// needsRefs reads the needs entry of a job, scalar or sequence form.
func needsRefs(job *yaml.Node) []string {
	needs := mappingValue(job, "needs")
	if needs == nil {
		return nil
	}

	switch needs.Kind {
	case yaml.ScalarNode:
		if isNull(needs) {
			return nil
		}
		return []string{needs.Value}
	case yaml.SequenceNode:
		refs := make([]string, 0, len(needs.Content))
		for _, item := range needs.Content {
			refs = append(refs, item.Value)
		}
		return refs
	default:
		return nil
	}
}
