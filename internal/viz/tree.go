package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/vehiclerig/internal/rig"
)

var roleStyles = map[rig.Role]lipgloss.Style{
	rig.RoleRoot:       lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true),
	rig.RoleControls:   lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff")),
	rig.RoleAxle:       lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true),
	rig.RoleAnchor:     lipgloss.NewStyle().Foreground(lipgloss.Color("#888899")),
	rig.RoleSuspension: lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00")),
	rig.RoleHinge:      lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88")),
}

// RenderTree draws the rig hierarchy, one node per line. Axles whose
// wheels are absent list the missing slots.
func RenderTree(r *rig.Rig) string {
	var b strings.Builder
	r.Root.Walk(func(n *rig.Node, depth int) bool {
		indent := strings.Repeat("  ", depth)
		b.WriteString(indent + roleStyles[n.Role].Render(n.Name) + " " + Subtle.Render("("+n.Role.String()+")"))
		for _, bh := range n.Behaviors {
			b.WriteString(" " + KeyHint.Render("+"+bh.Name()))
		}
		b.WriteString("\n")

		if n.Role == rig.RoleAxle {
			for _, a := range r.Axles {
				if a.Node != n {
					continue
				}
				for _, s := range a.Slots {
					if !s.Present() {
						b.WriteString(fmt.Sprintf("%s  %s\n", indent, StatusError.Render("- "+s.Key+" absent")))
					}
				}
			}
		}
		return true
	})
	return b.String()
}
