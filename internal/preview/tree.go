package preview

import (
	"github.com/tapfolio/tapfolio-backend/pkg/enums"
)

// NodeKind identifies what a tree node draws.
type NodeKind string

const (
	// NodeSurface is the base shape carrying background fill and pattern.
	NodeSurface NodeKind = "surface"
	// NodeAccentStrip is the colored strip on rectangular layouts.
	NodeAccentStrip NodeKind = "accent_strip"
	// NodeLabel is a text run.
	NodeLabel NodeKind = "label"
	// NodeImage is an uploaded asset (logo or custom artwork).
	NodeImage NodeKind = "image"
	// NodeIcon is a catalog icon.
	NodeIcon NodeKind = "icon"
	// NodeQRBadge carries the encoded payload URL.
	NodeQRBadge NodeKind = "qr_badge"
	// NodeRing is a circular outline (sticker/band default ring, keychain ring).
	NodeRing NodeKind = "ring"
	// NodeChain is the keychain link run between ring and tag.
	NodeChain NodeKind = "chain"
	// NodeGroup nests children with an optional scale (keychain tag).
	NodeGroup NodeKind = "group"
)

// Shape is the outline geometry of a surface node.
type Shape string

const (
	ShapeRect   Shape = "rect"
	ShapeCircle Shape = "circle"
	ShapePill   Shape = "pill"
	ShapeTag    Shape = "tag"
)

// Anchor places a node inside its parent surface.
type Anchor string

const (
	AnchorTopLeft     Anchor = "top_left"
	AnchorTopRight    Anchor = "top_right"
	AnchorBottomLeft  Anchor = "bottom_left"
	AnchorBottomRight Anchor = "bottom_right"
	AnchorCenter      Anchor = "center"
)

// Stroke describes a surface outline derived from the border style.
type Stroke struct {
	Style enums.BorderStyle `json:"style"`
	Color string            `json:"color"`
}

// Node is one drawable element. Kind decides which fields are meaningful.
type Node struct {
	Kind      NodeKind      `json:"kind"`
	Shape     Shape         `json:"shape,omitempty"`
	Anchor    Anchor        `json:"anchor,omitempty"`
	Fill      string        `json:"fill,omitempty"`
	Color     string        `json:"color,omitempty"`
	Pattern   enums.Pattern `json:"pattern,omitempty"`
	Stroke    *Stroke       `json:"stroke,omitempty"`
	Text      string        `json:"text,omitempty"`
	ImageURL  string        `json:"imageUrl,omitempty"`
	Icon      enums.Icon    `json:"icon,omitempty"`
	QRPayload string        `json:"qrPayload,omitempty"`
	Scale     float64       `json:"scale,omitempty"`
	Children  []Node        `json:"children,omitempty"`
}

// VisualTree is the full render output for one side of one product.
type VisualTree struct {
	Category enums.ProductCategory `json:"category"`
	Side     enums.Side            `json:"side"`
	Root     Node                  `json:"root"`
}
