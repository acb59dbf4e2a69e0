package ui

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RunInteractive drives the controller from line commands read from in,
// redrawing view to out after each one.
func RunInteractive(ctrl *Controller, view *ListView, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	for {
		if _, err := fmt.Fprint(out, view.View()); err != nil {
			return fmt.Errorf("write ui view: %w", err)
		}
		if _, err := fmt.Fprint(out, "\ncommand> "); err != nil {
			return fmt.Errorf("write ui prompt: %w", err)
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read ui command: %w", err)
			}
			return nil
		}

		command, rest, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		command = strings.ToLower(command)
		rest = strings.TrimSpace(rest)

		var notice string
		switch command {
		case "q", "quit", "exit":
			return nil
		case "":
			// No-op; rerender.
		case "add":
			if _, added := ctrl.Add(rest); !added {
				notice = "title must not be empty"
			}
		case "toggle", "done":
			notice = withRow(view, rest, func(id string) string {
				ctrl.ToggleComplete(id)
				return ""
			})
		case "rm", "delete":
			notice = withRow(view, rest, func(id string) string {
				ctrl.Delete(id)
				return ""
			})
		case "edit":
			notice = withRow(view, rest, func(id string) string {
				if task, list, _ := view.ItemAt(rowIndex(rest)); list == ListCompleted {
					return fmt.Sprintf("%q is completed and cannot be edited", task.Title)
				}
				ctrl.BeginEdit(id)
				return ""
			})
		case "set", "update":
			rowArg, title, _ := strings.Cut(rest, " ")
			notice = withRow(view, rowArg, func(id string) string {
				if ctrl.EditState(id) != Editing {
					return "row is not being edited; use edit first"
				}
				if !ctrl.CommitEdit(id, title) {
					return "title must not be empty"
				}
				return ""
			})
		case "cancel":
			notice = withRow(view, rest, func(id string) string {
				ctrl.CancelEdit(id)
				return ""
			})
		default:
			notice = "unknown command: " + command
		}

		if notice != "" {
			if _, err := fmt.Fprintln(out, notice); err != nil {
				return fmt.Errorf("write ui notice: %w", err)
			}
		}
	}
}

// withRow resolves a 1-based row argument and calls fn with its task id.
func withRow(view *ListView, arg string, fn func(id string) string) string {
	task, _, ok := view.ItemAt(rowIndex(arg))
	if !ok {
		return fmt.Sprintf("no row %q", arg)
	}
	return fn(task.ID)
}

func rowIndex(arg string) int {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return -1
	}
	return n - 1
}
