package site

import (
	"encoding/xml"
	"fmt"
)

// sitemapURLCap is the protocol limit on URLs per sitemap file.
const sitemapURLCap = 50000

const sitemapXmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlEntry struct {
	Loc string `xml:"loc"`
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type sitemapRef struct {
	Loc string `xml:"loc"`
}

type sitemapIndex struct {
	XMLName  xml.Name     `xml:"sitemapindex"`
	Xmlns    string       `xml:"xmlns,attr"`
	Sitemaps []sitemapRef `xml:"sitemap"`
}

// chunkURLs partitions urls into groups of at most limit, preserving order.
// Every input URL lands in exactly one chunk.
func chunkURLs(urls []string, limit int) [][]string {
	var chunks [][]string
	for len(urls) > limit {
		chunks = append(chunks, urls[:limit])
		urls = urls[limit:]
	}
	if len(urls) > 0 {
		chunks = append(chunks, urls)
	}
	return chunks
}

// writeSitemaps emits the sitemap artifacts for the given canonical URL list.
// At most sitemapURLCap URLs go straight into /sitemap.xml as a urlset;
// beyond that the URLs are split into /sitemap-{n}.xml chunks and
// /sitemap.xml becomes an index referencing each chunk by absolute URL.
// Returns the number of files written.
func (b *Builder) writeSitemaps(urls []string) (int, error) {
	chunks := chunkURLs(urls, sitemapURLCap)

	if len(chunks) <= 1 {
		set := urlSet{Xmlns: sitemapXmlns}
		for _, chunk := range chunks {
			for _, u := range chunk {
				set.URLs = append(set.URLs, urlEntry{Loc: u})
			}
		}
		if err := b.writeXML("sitemap.xml", set); err != nil {
			return 0, err
		}
		return 1, nil
	}

	index := sitemapIndex{Xmlns: sitemapXmlns}
	for i, chunk := range chunks {
		name := fmt.Sprintf("sitemap-%d.xml", i+1)
		set := urlSet{Xmlns: sitemapXmlns, URLs: make([]urlEntry, 0, len(chunk))}
		for _, u := range chunk {
			set.URLs = append(set.URLs, urlEntry{Loc: u})
		}
		if err := b.writeXML(name, set); err != nil {
			return 0, err
		}
		index.Sitemaps = append(index.Sitemaps, sitemapRef{Loc: b.cfg.SiteBase + "/" + name})
	}
	if err := b.writeXML("sitemap.xml", index); err != nil {
		return 0, err
	}
	return len(chunks) + 1, nil
}

func (b *Builder) writeXML(relPath string, payload any) error {
	data, err := xml.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", relPath, err)
	}
	return b.writeFile(relPath, append([]byte(xml.Header), append(data, '\n')...))
}
