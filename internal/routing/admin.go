package routing

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/psds-microservice/support-router/internal/errs"
	"github.com/psds-microservice/support-router/internal/model"
)

const adminHelp = `Admin commands:
/add_operator <id> <full name>
/remove_operator <id>
/add_faq <question> | <answer>
/edit_faq <id> <question> | <answer>
/del_faq <id>
/list_faq`

func (r *Router) adminCommand(ctx context.Context, ev Event) ([]Action, error) {
	switch ev.Command {
	case CmdAddOperator:
		id, name, _ := strings.Cut(strings.TrimSpace(ev.Args), " ")
		if id == "" || strings.TrimSpace(name) == "" {
			return nil, errs.Validation("Usage: /add_operator <id> <full name>")
		}
		op, err := r.Operators.Register(ctx, ev.TenantID, id, name)
		if err != nil {
			return nil, err
		}
		return []Action{Reply(ev.ActorID, fmt.Sprintf("Operator %s (%s) added.", op.FullName, op.ExternalID))}, nil

	case CmdRemoveOperator:
		id := strings.TrimSpace(ev.Args)
		if id == "" {
			return nil, errs.Validation("Usage: /remove_operator <id>")
		}
		op, err := r.Operators.Remove(ctx, ev.TenantID, id)
		if err != nil {
			return nil, err
		}
		return []Action{Reply(ev.ActorID, fmt.Sprintf("Operator %s removed.", op.ExternalID))}, nil

	case CmdAddFaq:
		q, a, ok := splitFaq(ev.Args)
		if !ok {
			return nil, errs.Validation("Usage: /add_faq <question> | <answer>")
		}
		entry, err := r.Faq.Create(ctx, ev.TenantID, q, a)
		if err != nil {
			return nil, err
		}
		return []Action{Reply(ev.ActorID, fmt.Sprintf("FAQ entry #%d added.", entry.ID))}, nil

	case CmdEditFaq:
		rawID, rest, _ := strings.Cut(strings.TrimSpace(ev.Args), " ")
		id, idErr := strconv.ParseUint(rawID, 10, 64)
		q, a, ok := splitFaq(rest)
		if idErr != nil || !ok {
			return nil, errs.Validation("Usage: /edit_faq <id> <question> | <answer>")
		}
		if err := r.Faq.Update(ctx, ev.TenantID, id, q, a); err != nil {
			return nil, err
		}
		return []Action{Reply(ev.ActorID, fmt.Sprintf("FAQ entry #%d updated.", id))}, nil

	case CmdDelFaq:
		id, err := strconv.ParseUint(strings.TrimSpace(ev.Args), 10, 64)
		if err != nil {
			return nil, errs.Validation("Usage: /del_faq <id>")
		}
		if err := r.Faq.Delete(ctx, ev.TenantID, id); err != nil {
			return nil, err
		}
		return []Action{Reply(ev.ActorID, fmt.Sprintf("FAQ entry #%d deleted.", id))}, nil

	case CmdListFaq:
		entries, err := r.Faq.List(ctx, ev.TenantID)
		if err != nil {
			return nil, err
		}
		return []Action{Reply(ev.ActorID, formatFaqList(entries))}, nil
	}
	return nil, notAvailable()
}

// splitFaq splits "question | answer" on the first separator.
func splitFaq(s string) (question, answer string, ok bool) {
	q, a, found := strings.Cut(s, "|")
	q, a = strings.TrimSpace(q), strings.TrimSpace(a)
	return q, a, found && q != "" && a != ""
}

func formatFaqList(entries []model.FAQEntry) string {
	if len(entries) == 0 {
		return noFaqEntries
	}
	var b strings.Builder
	b.WriteString("FAQ entries:")
	for _, e := range entries {
		fmt.Fprintf(&b, "\n#%d %s", e.ID, e.Question)
	}
	return b.String()
}
