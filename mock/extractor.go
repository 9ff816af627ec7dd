package mock

import "github.com/postarch/postarch"

var _ postarch.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of postarch.Extractor.
type Extractor struct {
	ExtractFn func(rawHTML string) (*postarch.ExtractResult, error)
}

func (e *Extractor) Extract(rawHTML string) (*postarch.ExtractResult, error) {
	return e.ExtractFn(rawHTML)
}

var _ postarch.BlockParser = (*BlockParser)(nil)

// BlockParser is a mock implementation of postarch.BlockParser.
type BlockParser struct {
	ParseFn func(contentHTML string) ([]postarch.Block, error)
}

func (p *BlockParser) Parse(contentHTML string) ([]postarch.Block, error) {
	return p.ParseFn(contentHTML)
}

var _ postarch.MetaScanner = (*MetaScanner)(nil)

// MetaScanner is a mock implementation of postarch.MetaScanner.
type MetaScanner struct {
	ScanFn func(rawHTML string) (*postarch.PostMeta, error)
}

func (s *MetaScanner) Scan(rawHTML string) (*postarch.PostMeta, error) {
	return s.ScanFn(rawHTML)
}
