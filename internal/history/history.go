// Package history exposes undo and redo of the rich-text surface.
package history

// UndoRedoer is the command stack of the editing surface.
type UndoRedoer interface {
	Undo() bool
	Redo() bool
	CanUndo() bool
	CanRedo() bool
}

// Controller delegates to the surface's stack and keeps no buffer of its own.
type Controller struct {
	stack UndoRedoer
}

func NewController(stack UndoRedoer) *Controller {
	return &Controller{stack: stack}
}

// Undo reverts the last step. It reports false when there was nothing to undo.
func (c *Controller) Undo() bool {
	if c.stack == nil {
		return false
	}
	return c.stack.Undo()
}

func (c *Controller) Redo() bool {
	if c.stack == nil {
		return false
	}
	return c.stack.Redo()
}

func (c *Controller) CanUndo() bool {
	return c.stack != nil && c.stack.CanUndo()
}

func (c *Controller) CanRedo() bool {
	return c.stack != nil && c.stack.CanRedo()
}
