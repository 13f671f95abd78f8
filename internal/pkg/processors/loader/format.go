package loader

// The lowering stage hands modules over as JSON. Every node carries a
// `span` of [start, end] offsets into the source file named by the
// module's `source` field.

type module struct {
	Name   string  `json:"name"`
	Source string  `json:"source"`
	Decls  []*decl `json:"decls"`
}

type span [2]uint32

type decl struct {
	Kind     string   `json:"kind"`
	Span     span     `json:"span"`
	Doc      string   `json:"doc"`
	Name     string   `json:"name"`
	Params   []*param `json:"params"`
	Ctors    []*ctor  `json:"ctors"`
	Dtors    []*dtor  `json:"dtors"`
	Self     *self    `json:"self"`
	RetTyp   *expr    `json:"ret"`
	Typ      *expr    `json:"typ"`
	Body     *expr    `json:"body"`
	Cases    []*kase  `json:"cases"`
	Operator string   `json:"operator"`
	Target   string   `json:"target"`
}

type param struct {
	Span span   `json:"span"`
	Name string `json:"name"`
	Type *expr  `json:"type"`
}

type self struct {
	Span span   `json:"span"`
	Name string `json:"name"`
	Type *expr  `json:"type"`
}

type ctor struct {
	Span   span     `json:"span"`
	Doc    string   `json:"doc"`
	Name   string   `json:"name"`
	Params []*param `json:"params"`
	Typ    *expr    `json:"typ"`
}

type dtor struct {
	Span   span     `json:"span"`
	Doc    string   `json:"doc"`
	Name   string   `json:"name"`
	Params []*param `json:"params"`
	Self   *self    `json:"self"`
	RetTyp *expr    `json:"ret"`
}

type kase struct {
	Span      span     `json:"span"`
	Copattern bool     `json:"copattern"`
	Name      string   `json:"name"`
	Params    []*param `json:"params"`
	Body      *expr    `json:"body"`
}

type expr struct {
	Kind       string   `json:"kind"`
	Span       span     `json:"span"`
	Name       string   `json:"name"`
	Idx        [2]int   `json:"idx"`
	Call       string   `json:"call"`
	Exp        *expr    `json:"exp"`
	Args       []*expr  `json:"args"`
	Annotation *expr    `json:"annotation"`
	Label      string   `json:"label"`
	On         *expr    `json:"on"`
	Cases      []*kase  `json:"cases"`
	Int        *int64   `json:"int"`
	Float      *float64 `json:"float"`
	Char       *string  `json:"char"`
	String     *string  `json:"string"`
}
