package drawing

// Kind identifies a drawing tool
type Kind string

const (
	KindHorizontalLine  Kind = "horizontal_line"
	KindVerticalLine    Kind = "vertical_line"
	KindTrendLine       Kind = "trend_line"
	KindRay             Kind = "ray"
	KindHorizontalRay   Kind = "horizontal_ray"
	KindArrow           Kind = "arrow"
	KindRectangle       Kind = "rectangle"
	KindPriceRange      Kind = "price_range"
	KindDateRange       Kind = "date_range"
	KindDatePriceRange  Kind = "date_price_range"
	KindGannBox         Kind = "gann_box"
	KindFibRetracement  Kind = "fib_retracement"
	KindParallelChannel Kind = "parallel_channel"
	KindTextNote        Kind = "text_note"
	KindCallout         Kind = "callout"
	KindLongPosition    Kind = "long_position"
	KindShortPosition   Kind = "short_position"
	KindPath            Kind = "path"
	KindBrush           Kind = "brush"
)

// Protocol is the creation protocol a tool follows
type Protocol int

const (
	ProtocolInstant Protocol = iota
	ProtocolTwoPoint
	ProtocolThreePoint
	ProtocolPath
	ProtocolBrush
	ProtocolAnchoredLabel
	ProtocolPosition
)

// Kinds lists every known drawing kind
var Kinds = []Kind{
	KindHorizontalLine, KindVerticalLine, KindTrendLine, KindRay, KindHorizontalRay,
	KindArrow, KindRectangle, KindPriceRange, KindDateRange, KindDatePriceRange,
	KindGannBox, KindFibRetracement, KindParallelChannel, KindTextNote, KindCallout,
	KindLongPosition, KindShortPosition, KindPath, KindBrush,
}

// Valid reports whether k is a known kind
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if known == k {
			return true
		}
	}
	return false
}

// Protocol returns the creation protocol of the tool
func (k Kind) Protocol() Protocol {
	switch k {
	case KindHorizontalLine, KindVerticalLine, KindTextNote:
		return ProtocolInstant
	case KindParallelChannel:
		return ProtocolThreePoint
	case KindPath:
		return ProtocolPath
	case KindBrush:
		return ProtocolBrush
	case KindCallout:
		return ProtocolAnchoredLabel
	case KindLongPosition, KindShortPosition:
		return ProtocolPosition
	default:
		return ProtocolTwoPoint
	}
}

// IsLine reports whether k is drawn as a single line through two points
func (k Kind) IsLine() bool {
	switch k {
	case KindTrendLine, KindRay, KindHorizontalRay, KindArrow:
		return true
	}
	return false
}

// IsBox reports whether k is a rectangle-like shape defined by two corners
func (k Kind) IsBox() bool {
	switch k {
	case KindRectangle, KindPriceRange, KindDateRange, KindDatePriceRange, KindGannBox:
		return true
	}
	return false
}
