package ruleset

// SkillDefinition associates a skill with the attribute whose modifier it displays.
type SkillDefinition struct {
	Name      string    `yaml:"name"`
	Attribute Attribute `yaml:"attribute"`
}
