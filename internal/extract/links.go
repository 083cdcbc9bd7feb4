package extract

import (
	"bytes"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"
)

// extractLinks pulls URI link annotations out of the document. Vendor
// parsers use these to tie agenda items to their attachments, so each link
// keeps its page index and bounding region. MuPDF does not expose
// annotations, so this walk goes through pdfcpu. Link failure is never
// fatal; a packet without a link list still extracts.
func (e *Extractor) extractLinks(data []byte) []Link {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pageAnnots, err := api.Annotations(bytes.NewReader(data), nil, conf)
	if err != nil {
		e.log.Warn("link extraction failed", zap.Error(err))
		return nil
	}

	var links []Link
	for pageNr, annots := range pageAnnots {
		renderers, ok := annots[model.AnnLink]
		if !ok {
			continue
		}
		for _, r := range renderers.Map {
			la, ok := r.(model.LinkAnnotation)
			if !ok || la.URI == "" {
				continue
			}
			links = append(links, Link{
				URL:  la.URI,
				Page: pageNr,
				Rect: [4]float64{la.Rect.LL.X, la.Rect.LL.Y, la.Rect.UR.X, la.Rect.UR.Y},
			})
		}
	}

	// Annotation maps iterate in arbitrary order; reorder by page.
	sort.Slice(links, func(i, j int) bool {
		if links[i].Page != links[j].Page {
			return links[i].Page < links[j].Page
		}
		return links[i].URL < links[j].URL
	})
	return links
}
