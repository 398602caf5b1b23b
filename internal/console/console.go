// Package console implements the line-oriented character sheet editor.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/character"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
	"github.com/cory-johannsen/charsheet/internal/game/session"
	"github.com/cory-johannsen/charsheet/internal/gateway"
)

// Prompt is written before each input line.
const Prompt = "> "

// Console reads commands, applies them to an editing session, and writes
// the results. Every failure is reported to the output as a notice.
type Console struct {
	editor   *session.Editor
	registry *Registry
	out      io.Writer
	color    bool
	logger   *zap.Logger
}

// Option configures a Console.
type Option func(*Console)

// WithColor enables or disables ANSI colors.
func WithColor(enabled bool) Option {
	return func(c *Console) { c.color = enabled }
}

// New creates a Console over editor. The first catalog class is selected
// as the starting class.
//
// Precondition: editor, out, and logger must be non-nil.
// Postcondition: Returns a Console with colors enabled unless overridden.
func New(editor *session.Editor, out io.Writer, logger *zap.Logger, opts ...Option) *Console {
	c := &Console{
		editor:   editor,
		registry: DefaultRegistry(),
		out:      out,
		color:    true,
		logger:   logger.Named("console"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if classes := editor.Catalog().ClassDefinitions(); len(classes) > 0 && editor.Sheet().Class == "" {
		editor.SelectClass(classes[0].Name)
	}
	return c
}

// Run prints the sheet and then executes lines from in until quit, EOF, or
// ctx is cancelled.
//
// Postcondition: Returns nil on quit or EOF, ctx.Err() on cancellation, or the read error.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	c.show()
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(c.out, Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(c.out)
			return scanner.Err()
		}
		if quit := c.Execute(ctx, scanner.Text()); quit {
			return nil
		}
	}
}

// Execute runs a single command line.
//
// Postcondition: Returns true when the line asks to leave the editor.
func (c *Console) Execute(ctx context.Context, line string) bool {
	parsed := Parse(line)
	if parsed.Command == "" {
		return false
	}
	cmd, ok := c.registry.Resolve(parsed.Command)
	if !ok {
		c.notice(fmt.Sprintf("Unknown command %q. Type help for a list of commands.", parsed.Command))
		return false
	}
	c.logger.Debug("executing command",
		zap.String("command", cmd.Name),
		zap.Strings("args", parsed.Args),
	)

	switch cmd.Handler {
	case HandlerShow:
		c.show()
	case HandlerAttr:
		c.adjustAttribute(cmd, parsed.Args)
	case HandlerSkill:
		c.adjustSkill(cmd, parsed.Args)
	case HandlerClasses:
		fmt.Fprint(c.out, RenderClasses(c.editor.Catalog(), c.editor.Sheet(), c.color))
	case HandlerClass:
		c.selectClass(cmd, parsed.Args)
	case HandlerLoad:
		c.load(ctx)
	case HandlerSave:
		c.save(ctx)
	case HandlerReset:
		c.editor.Reset()
		c.show()
	case HandlerHelp:
		c.help()
	case HandlerQuit:
		return true
	}
	return false
}

func (c *Console) show() {
	fmt.Fprint(c.out, RenderSheet(c.editor.Catalog(), c.editor.Sheet(), c.color))
}

func (c *Console) help() {
	for _, cmd := range c.registry.Commands() {
		line := fmt.Sprintf("  %-18s %s", cmd.Usage, cmd.Help)
		if len(cmd.Aliases) > 0 {
			line += fmt.Sprintf(" (%s)", strings.Join(cmd.Aliases, ", "))
		}
		fmt.Fprintln(c.out, line)
	}
}

func (c *Console) adjustAttribute(cmd *Command, args []string) {
	name, sign, ok := splitDirection(args)
	if !ok {
		c.usage(cmd)
		return
	}
	attr, ok := ruleset.ParseAttribute(name)
	if !ok {
		c.notice(fmt.Sprintf("Unknown attribute %q.", name))
		return
	}
	sheet, err := c.editor.AdjustAttribute(attr, direction(sign))
	if err != nil {
		c.notice(err.Error())
		return
	}
	fmt.Fprintf(c.out, "%s: %d (Modifier: %d)  [%d/%d points]\n",
		attr, sheet.Attributes[attr], character.Modifier(sheet.Attributes[attr]),
		sheet.AttributeTotal(), character.MaxAttributePoints)
}

func (c *Console) adjustSkill(cmd *Command, args []string) {
	name, sign, ok := splitDirection(args)
	if !ok {
		c.usage(cmd)
		return
	}
	skill, ok := c.findSkill(name)
	if !ok {
		c.notice(fmt.Sprintf("Unknown skill %q.", name))
		return
	}
	sheet, err := c.editor.AdjustSkill(skill.Name, direction(sign))
	if err != nil {
		c.notice(err.Error())
		return
	}
	fmt.Fprintf(c.out, "%s: %d (Modifier: %s %d)  [%d of %d skill points spent]\n",
		skill.Name, sheet.Skills[skill.Name], skill.Attribute.Abbrev(),
		character.SkillModifier(c.editor.Catalog(), sheet, skill.Name),
		sheet.SkillTotal(), character.SkillPointCap(sheet))
}

func (c *Console) selectClass(cmd *Command, args []string) {
	if len(args) == 0 {
		c.usage(cmd)
		return
	}
	name := strings.Join(args, " ")
	class, ok := c.findClass(name)
	if !ok {
		c.notice(fmt.Sprintf("Unknown class %q.", name))
		return
	}
	sheet := c.editor.SelectClass(class.Name)
	fmt.Fprintf(c.out, "Selected %s.\n", class.Name)
	fmt.Fprint(c.out, RenderRequirements(class, c.color))
	if !character.MeetsRequirements(class, sheet.Attributes) {
		fmt.Fprintln(c.out, "Your attributes do not meet these requirements yet.")
	}
}

func (c *Console) load(ctx context.Context) {
	_, err := c.editor.Load(ctx)
	switch {
	case err == nil:
		fmt.Fprintln(c.out, "Character loaded.")
		c.show()
	case errors.Is(err, session.ErrBusy), errors.Is(err, session.ErrStale):
		c.notice(err.Error())
	case errors.Is(err, gateway.ErrTransport):
		c.notice("Error loading character: " + err.Error())
	default:
		c.notice(err.Error())
	}
}

func (c *Console) save(ctx context.Context) {
	err := c.editor.Save(ctx)
	switch {
	case err == nil:
		fmt.Fprintln(c.out, "Character saved successfully.")
	case errors.Is(err, session.ErrBusy):
		c.notice(err.Error())
	default:
		c.notice("Error saving character: " + err.Error())
	}
}

func (c *Console) findSkill(name string) (ruleset.SkillDefinition, bool) {
	for _, sk := range c.editor.Catalog().SkillDefinitions() {
		if strings.EqualFold(sk.Name, name) {
			return sk, true
		}
	}
	return ruleset.SkillDefinition{}, false
}

func (c *Console) findClass(name string) (ruleset.ClassDefinition, bool) {
	for _, class := range c.editor.Catalog().ClassDefinitions() {
		if strings.EqualFold(class.Name, name) {
			return class, true
		}
	}
	return ruleset.ClassDefinition{}, false
}

func (c *Console) usage(cmd *Command) {
	c.notice("Usage: " + cmd.Usage)
}

func (c *Console) notice(msg string) {
	c.logger.Debug("notice", zap.String("message", msg))
	fmt.Fprintln(c.out, colorize(c.color, Yellow, "! "+msg))
}

func direction(sign string) character.Direction {
	if sign == "-" {
		return character.Decrement
	}
	return character.Increment
}
