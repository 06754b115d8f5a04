package el

func Div(args ...any) Descriptor      { return H("div", args...) }
func Span(args ...any) Descriptor     { return H("span", args...) }
func P(args ...any) Descriptor        { return H("p", args...) }
func A(args ...any) Descriptor        { return H("a", args...) }
func Button(args ...any) Descriptor   { return H("button", args...) }
func Input(args ...any) Descriptor    { return H("input", args...) }
func TextArea(args ...any) Descriptor { return H("textarea", args...) }
func Label(args ...any) Descriptor    { return H("label", args...) }
func Form(args ...any) Descriptor     { return H("form", args...) }
func Select(args ...any) Descriptor   { return H("select", args...) }
func Option(args ...any) Descriptor   { return H("option", args...) }
func H1(args ...any) Descriptor       { return H("h1", args...) }
func H2(args ...any) Descriptor       { return H("h2", args...) }
func H3(args ...any) Descriptor       { return H("h3", args...) }
func H4(args ...any) Descriptor       { return H("h4", args...) }
func Header(args ...any) Descriptor   { return H("header", args...) }
func Footer(args ...any) Descriptor   { return H("footer", args...) }
func Main(args ...any) Descriptor     { return H("main", args...) }
func Nav(args ...any) Descriptor      { return H("nav", args...) }
func Section(args ...any) Descriptor  { return H("section", args...) }
func Article(args ...any) Descriptor  { return H("article", args...) }
func Aside(args ...any) Descriptor    { return H("aside", args...) }
func Ul(args ...any) Descriptor       { return H("ul", args...) }
func Ol(args ...any) Descriptor       { return H("ol", args...) }
func Li(args ...any) Descriptor       { return H("li", args...) }
func Table(args ...any) Descriptor    { return H("table", args...) }
func THead(args ...any) Descriptor    { return H("thead", args...) }
func TBody(args ...any) Descriptor    { return H("tbody", args...) }
func Tr(args ...any) Descriptor       { return H("tr", args...) }
func Th(args ...any) Descriptor       { return H("th", args...) }
func Td(args ...any) Descriptor       { return H("td", args...) }
func Img(args ...any) Descriptor      { return H("img", args...) }
func Br(args ...any) Descriptor       { return H("br", args...) }
func Hr(args ...any) Descriptor       { return H("hr", args...) }
func Pre(args ...any) Descriptor      { return H("pre", args...) }
func Code(args ...any) Descriptor     { return H("code", args...) }
func Strong(args ...any) Descriptor   { return H("strong", args...) }
func Em(args ...any) Descriptor       { return H("em", args...) }
func Small(args ...any) Descriptor    { return H("small", args...) }
