package application

import (
	"context"
	"fmt"

	"github.com/mkossman/noted-cli/internal/domain"
)

// Refresh reloads one list from the server. The displayed list is always a
// full server reload, never a locally patched subset.
func (c *Controller) Refresh(ctx context.Context, kind domain.ListKind) error {
	if err := c.requireLoggedIn(); err != nil {
		return c.fail(err)
	}

	return c.runBusy(func() error {
		return c.reload(ctx, kind)
	})
}

func (c *Controller) reload(ctx context.Context, kind domain.ListKind) error {
	entries, err := c.api.ListEntries(ctx, kind)
	if err != nil {
		return err
	}
	c.setList(kind, entries)
	return nil
}

// Create adds a new entry and reloads the affected list. Empty text is
// rejected before any network call.
func (c *Controller) Create(ctx context.Context, kind domain.ListKind, text string) error {
	if err := c.requireLoggedIn(); err != nil {
		return c.fail(err)
	}
	if err := domain.ValidateText(text); err != nil {
		return c.fail(err)
	}

	return c.runBusy(func() error {
		if _, err := c.api.CreateEntry(ctx, kind, text); err != nil {
			return err
		}
		return c.reload(ctx, kind)
	})
}

// StartEdit opens the in-place editor on one entry, seeding the draft with
// its current text. At most one entry is ever being edited.
func (c *Controller) StartEdit(kind domain.ListKind, id domain.EntryID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.findLocked(kind, id)
	if !ok {
		c.st.Err = domain.ErrEntryNotFound.Error()
		return domain.ErrEntryNotFound
	}

	c.st.Edit = domain.EditCursor{Kind: kind, ID: id, Draft: entry.Text}
	return nil
}

func (c *Controller) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.st.Edit.Active() {
		c.st.Edit.Draft = text
	}
}

func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.Edit = domain.EditCursor{}
}

// SaveEdit pushes the draft text to the server, discards the cursor, and
// reloads the affected list.
func (c *Controller) SaveEdit(ctx context.Context) error {
	if err := c.requireLoggedIn(); err != nil {
		return c.fail(err)
	}

	c.mu.Lock()
	cursor := c.st.Edit
	c.mu.Unlock()

	if !cursor.Active() {
		return c.fail(domain.ErrNoActiveEdit)
	}
	if err := domain.ValidateText(cursor.Draft); err != nil {
		return c.fail(err)
	}

	return c.runBusy(func() error {
		if err := c.api.UpdateEntry(ctx, cursor.Kind, cursor.ID, cursor.Draft); err != nil {
			return err
		}

		c.mu.Lock()
		c.st.Edit = domain.EditCursor{}
		c.mu.Unlock()

		return c.reload(ctx, cursor.Kind)
	})
}

// Delete removes an entry and reloads its list. Confirmation is the
// caller's responsibility; by the time this runs the user has said yes.
// Deleting the entry under edit discards the edit cursor.
func (c *Controller) Delete(ctx context.Context, kind domain.ListKind, id domain.EntryID) error {
	if err := c.requireLoggedIn(); err != nil {
		return c.fail(err)
	}

	return c.runBusy(func() error {
		if err := c.api.DeleteEntry(ctx, kind, id); err != nil {
			return err
		}

		c.mu.Lock()
		if c.st.Edit.Kind == kind && c.st.Edit.ID == id {
			c.st.Edit = domain.EditCursor{}
		}
		c.mu.Unlock()

		return c.reload(ctx, kind)
	})
}

// Promote copies a shortcut's text into a brand-new record and reloads the
// records list. The shortcut itself is untouched.
func (c *Controller) Promote(ctx context.Context, id domain.EntryID) error {
	if err := c.requireLoggedIn(); err != nil {
		return c.fail(err)
	}

	c.mu.Lock()
	shortcut, ok := c.findLocked(domain.ListShortcuts, id)
	c.mu.Unlock()

	if !ok {
		return c.fail(fmt.Errorf("promote shortcut %s: %w", id, domain.ErrEntryNotFound))
	}

	return c.runBusy(func() error {
		if _, err := c.api.CreateEntry(ctx, domain.ListRecords, shortcut.Text); err != nil {
			return err
		}
		return c.reload(ctx, domain.ListRecords)
	})
}

func (c *Controller) findLocked(kind domain.ListKind, id domain.EntryID) (domain.Entry, bool) {
	list := c.st.Records
	if kind == domain.ListShortcuts {
		list = c.st.Shortcuts
	}

	for _, entry := range list {
		if entry.ID == id {
			return entry, true
		}
	}
	return domain.Entry{}, false
}
