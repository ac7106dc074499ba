package layout

import (
	"fmt"
	"strings"
)

func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(s) {
	case "", "vertical":
		return Vertical, nil
	case "horizontal":
		return Horizontal, nil
	}
	return Vertical, fmt.Errorf("unknown orientation %q", s)
}

func ParseHeaderPlacement(s string) (HeaderPlacement, error) {
	switch strings.ToLower(s) {
	case "", "inline":
		return PlacementInline, nil
	case "adjacent":
		return PlacementAdjacent, nil
	}
	return PlacementInline, fmt.Errorf("unknown header placement %q", s)
}

func ParseSnapPoints(s string) (SnapPointsAlignment, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return SnapNone, nil
	case "near":
		return SnapNear, nil
	case "center":
		return SnapCenter, nil
	case "far":
		return SnapFar, nil
	}
	return SnapNone, fmt.Errorf("unknown snap points alignment %q", s)
}

func ParseScrollAlignment(s string) (ScrollAlignment, error) {
	switch strings.ToLower(s) {
	case "", "default":
		return AlignDefault, nil
	case "leading":
		return AlignLeading, nil
	case "center":
		return AlignCenter, nil
	}
	return AlignDefault, fmt.Errorf("unknown scroll alignment %q", s)
}

func (a ScrollAlignment) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *ScrollAlignment) UnmarshalText(text []byte) error {
	v, err := ParseScrollAlignment(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
