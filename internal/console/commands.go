package console

import "fmt"

// Handler identifiers for the built-in console commands.
const (
	HandlerShow    = "show"
	HandlerAttr    = "attr"
	HandlerSkill   = "skill"
	HandlerClasses = "classes"
	HandlerClass   = "class"
	HandlerLoad    = "load"
	HandlerSave    = "save"
	HandlerReset   = "reset"
	HandlerHelp    = "help"
	HandlerQuit    = "quit"
)

// Command defines a console command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument form, e.g. "attr <name> +|-".
	Usage string
	// Help is the short help text.
	Help string
	// Handler selects the Console method that runs the command.
	Handler string
}

// BuiltinCommands returns all console commands in help order.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "show", Aliases: []string{"sheet", "ls"}, Usage: "show", Help: "Show the character sheet", Handler: HandlerShow},
		{Name: "attr", Aliases: []string{"a"}, Usage: "attr <name> +|-", Help: "Raise or lower an attribute (full name or STR, DEX, ...)", Handler: HandlerAttr},
		{Name: "skill", Aliases: []string{"s"}, Usage: "skill <name> +|-", Help: "Spend or refund a skill point", Handler: HandlerSkill},
		{Name: "classes", Aliases: nil, Usage: "classes", Help: "List classes; eligible ones are highlighted", Handler: HandlerClasses},
		{Name: "class", Aliases: []string{"c"}, Usage: "class <name>", Help: "Select a class and show its requirements", Handler: HandlerClass},
		{Name: "load", Aliases: nil, Usage: "load", Help: "Load the saved character", Handler: HandlerLoad},
		{Name: "save", Aliases: nil, Usage: "save", Help: "Save the character", Handler: HandlerSave},
		{Name: "reset", Aliases: nil, Usage: "reset", Help: "Restore the default sheet", Handler: HandlerReset},
		{Name: "help", Aliases: []string{"?"}, Usage: "help", Help: "List commands", Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit", "q"}, Usage: "quit", Help: "Leave the editor", Handler: HandlerQuit},
	}
}

// Registry maps command names and aliases to Command definitions.
type Registry struct {
	commands map[string]*Command // canonical name → command
	aliases  map[string]string   // alias → canonical name
	order    []string
}

// NewRegistry creates a Registry populated with the given commands.
//
// Precondition: No two commands may share a canonical name or alias.
// Postcondition: Returns a Registry or an error on name/alias collisions.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{
		commands: make(map[string]*Command, len(cmds)),
		aliases:  make(map[string]string),
	}

	for i := range cmds {
		cmd := &cmds[i]
		if _, exists := r.commands[cmd.Name]; exists {
			return nil, fmt.Errorf("duplicate command name: %q", cmd.Name)
		}
		if _, exists := r.aliases[cmd.Name]; exists {
			return nil, fmt.Errorf("command name %q conflicts with an existing alias", cmd.Name)
		}
		r.commands[cmd.Name] = cmd
		r.order = append(r.order, cmd.Name)

		for _, alias := range cmd.Aliases {
			if _, exists := r.commands[alias]; exists {
				return nil, fmt.Errorf("alias %q conflicts with command name %q", alias, alias)
			}
			if existing, exists := r.aliases[alias]; exists {
				return nil, fmt.Errorf("duplicate alias %q: used by %q and %q", alias, existing, cmd.Name)
			}
			r.aliases[alias] = cmd.Name
		}
	}

	return r, nil
}

// DefaultRegistry creates a Registry with all built-in commands.
//
// Postcondition: Returns a Registry with all built-in commands registered.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		panic(fmt.Sprintf("building default registry: %v", err))
	}
	return r
}

// Resolve looks up a command by name or alias.
//
// Postcondition: Returns (command, true) if found, or (nil, false).
func (r *Registry) Resolve(input string) (*Command, bool) {
	if cmd, ok := r.commands[input]; ok {
		return cmd, true
	}
	if canonical, ok := r.aliases[input]; ok {
		return r.commands[canonical], true
	}
	return nil, false
}

// Commands returns all registered commands in registration order.
func (r *Registry) Commands() []*Command {
	result := make([]*Command, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.commands[name])
	}
	return result
}

