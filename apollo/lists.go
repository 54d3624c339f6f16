package apollo

import (
	"context"
)

// MaxListOpIDs caps how many entities one add-to-list or
// remove-from-list call will touch. Each entity costs up to two API
// round trips, so the cap keeps a single tool invocation bounded; IDs
// past the cap are silently dropped.
const MaxListOpIDs = 10

// ListOpResult reports the per-entity outcome of an add-to-list or
// remove-from-list call. FoundIDs and NotFoundIDs partition the capped
// input: every requested ID lands in exactly one of them, and
// UpdatedEntities holds one entry per FoundID.
//
// NotFoundIDs collects every kind of per-entity failure - unknown ID,
// rejected write, transport error. Callers that need to distinguish
// them have to consult logs; the result deliberately does not.
type ListOpResult struct {
	UpdatedEntities []map[string]any
	FoundIDs        []string
	NotFoundIDs     []string
	TotalRequested  int
}

type listOp string

const (
	listOpAdd    listOp = "add"
	listOpRemove listOp = "remove"
)

// listResource abstracts the per-entity endpoints the coordinator
// needs, so contacts and accounts share one implementation.
type listResource struct {
	name   string
	get    func(ctx context.Context, id string) (map[string]any, error)
	update func(ctx context.Context, id string, labels []string) (map[string]any, error)
}

// ContactAddToList adds up to MaxListOpIDs contacts to the named list
// while preserving every other list they are on. Lists are auto-created
// by Apollo when first referenced by name.
func (c *Client) ContactAddToList(ctx context.Context, contactIDs []string, labelName string) (*ListOpResult, error) {
	return c.applyListOp(ctx, c.contactListResource(), listOpAdd, contactIDs, labelName)
}

// ContactRemoveFromList removes up to MaxListOpIDs contacts from the
// named list. Removing a contact from a list it is not on is a
// successful no-op.
func (c *Client) ContactRemoveFromList(ctx context.Context, contactIDs []string, labelName string) (*ListOpResult, error) {
	return c.applyListOp(ctx, c.contactListResource(), listOpRemove, contactIDs, labelName)
}

// AccountAddToList is ContactAddToList for accounts. Master API key
// required (account writes).
func (c *Client) AccountAddToList(ctx context.Context, accountIDs []string, labelName string) (*ListOpResult, error) {
	return c.applyListOp(ctx, c.accountListResource(), listOpAdd, accountIDs, labelName)
}

// AccountRemoveFromList is ContactRemoveFromList for accounts. Master
// API key required.
func (c *Client) AccountRemoveFromList(ctx context.Context, accountIDs []string, labelName string) (*ListOpResult, error) {
	return c.applyListOp(ctx, c.accountListResource(), listOpRemove, accountIDs, labelName)
}

func (c *Client) contactListResource() listResource {
	return listResource{
		name: ModalityContacts,
		get:  c.ContactByID,
		update: func(ctx context.Context, id string, labels []string) (map[string]any, error) {
			resp, err := c.ContactUpdate(ctx, id, ContactUpdate{LabelNames: labels})
			if err != nil {
				return nil, err
			}
			return resp.Contact, nil
		},
	}
}

func (c *Client) accountListResource() listResource {
	return listResource{
		name: ModalityAccounts,
		get:  c.AccountByID,
		update: func(ctx context.Context, id string, labels []string) (map[string]any, error) {
			resp, err := c.AccountUpdate(ctx, id, AccountUpdate{LabelNames: labels})
			if err != nil {
				return nil, err
			}
			return resp.Account, nil
		},
	}
}

// applyListOp runs the membership state machine for every capped ID in
// turn: resolve the current label set (cache, else a confirming GET),
// compute the new set, write it through the per-entity update endpoint,
// and record the result. One entity failing never aborts the batch; the
// only error returned is ctx.Err().
func (c *Client) applyListOp(ctx context.Context, res listResource, op listOp, ids []string, labelName string) (*ListOpResult, error) {
	if len(ids) > MaxListOpIDs {
		ids = ids[:MaxListOpIDs]
	}
	result := &ListOpResult{
		UpdatedEntities: []map[string]any{},
		FoundIDs:        []string{},
		NotFoundIDs:     []string{},
		TotalRequested:  len(ids),
	}

	for _, id := range ids {
		if op != listOpAdd && op != listOpRemove {
			result.NotFoundIDs = append(result.NotFoundIDs, id)
			continue
		}

		current, known := c.cache.Get(id)
		if !known {
			if _, err := res.get(ctx, id); err != nil {
				if ctx.Err() != nil {
					return result, ctx.Err()
				}
				c.logger.Warn("list_op_entity_unresolved", "resource", res.name, "id", id, "error", err.Error())
				result.NotFoundIDs = append(result.NotFoundIDs, id)
				continue
			}
			// The get-by-id response does not reliably carry
			// label_names, so a freshly confirmed entity starts from an
			// empty known set. Labels set through other channels before
			// this process first touched the entity are not preserved.
			current = nil
			c.cache.Seed(id, nil)
		}

		var next []string
		if op == listOpAdd {
			next = mergeLabel(current, labelName)
		} else {
			next = dropLabel(current, labelName)
		}

		entity, err := res.update(ctx, id, next)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			c.logger.Warn("list_op_update_failed", "resource", res.name, "id", id, "error", err.Error())
			result.NotFoundIDs = append(result.NotFoundIDs, id)
			continue
		}

		c.cache.Set(id, next)
		if entity == nil {
			entity = map[string]any{"id": id}
		}
		// The update response does not echo label_names; annotate the
		// entity with the set we just wrote.
		entity["label_names"] = next
		result.UpdatedEntities = append(result.UpdatedEntities, entity)
		result.FoundIDs = append(result.FoundIDs, id)
	}

	return result, nil
}

func mergeLabel(current []string, label string) []string {
	for _, l := range current {
		if l == label {
			return normalizeLabels(current)
		}
	}
	return normalizeLabels(append(append([]string{}, current...), label))
}

func dropLabel(current []string, label string) []string {
	out := make([]string, 0, len(current))
	for _, l := range current {
		if l != label {
			out = append(out, l)
		}
	}
	return normalizeLabels(out)
}
