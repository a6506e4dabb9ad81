package parser

import "approxc/internal/source"

func (p *Parser) pushScope() {
	p.typedefs = append(p.typedefs, map[source.StringID]bool{})
}

func (p *Parser) popScope() {
	p.typedefs = p.typedefs[:len(p.typedefs)-1]
}

// declareName записывает имя в текущую область; обычная переменная
// перекрывает typedef с тем же именем.
func (p *Parser) declareName(name source.StringID, isTypedef bool) {
	if name == source.NoStringID {
		return
	}
	p.typedefs[len(p.typedefs)-1][name] = isTypedef
}

func (p *Parser) isTypedefName(text string) bool {
	id := p.intern(text)
	for i := len(p.typedefs) - 1; i >= 0; i-- {
		if v, ok := p.typedefs[i][id]; ok {
			return v
		}
	}
	return false
}
