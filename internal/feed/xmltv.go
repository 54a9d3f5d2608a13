package feed

import (
	"encoding/xml"
	"time"

	apperrors "github.com/cmilne/telegrid/internal/errors"
)

// XMLTV timestamp layouts. The zoned form is what real feeds emit; the bare
// form appears in older documents and is read as UTC.
const (
	xmltvTimeLayout     = "20060102150405 -0700"
	xmltvBareTimeLayout = "20060102150405"
)

type xmltvDocument struct {
	XMLName    xml.Name         `xml:"tv"`
	Channels   []xmltvChannel   `xml:"channel"`
	Programmes []xmltvProgramme `xml:"programme"`
}

type xmltvChannel struct {
	ID           string     `xml:"id,attr"`
	DisplayNames []string   `xml:"display-name"`
	Icon         *xmltvIcon `xml:"icon"`
}

type xmltvProgramme struct {
	Start       string     `xml:"start,attr"`
	Stop        string     `xml:"stop,attr"`
	Channel     string     `xml:"channel,attr"`
	Titles      []string   `xml:"title"`
	Desc        string     `xml:"desc"`
	Date        string     `xml:"date"`
	EpisodeNums []string   `xml:"episode-num"`
	Icon        *xmltvIcon `xml:"icon"`
}

type xmltvIcon struct {
	Src string `xml:"src,attr"`
}

// parseGuide decodes an XMLTV document into the intermediate representation.
// Individual programmes with unreadable timestamps keep a zero instant rather
// than failing the document; only a structurally broken document errors.
func parseGuide(data []byte) (*Guide, error) {
	var doc xmltvDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.FeedUnparsable("not a valid guide document", err)
	}
	if len(doc.Channels) == 0 && len(doc.Programmes) == 0 {
		return nil, apperrors.FeedUnparsable("guide document contains no channels or programmes", nil)
	}

	guide := &Guide{
		Channels:          make([]RawChannel, 0, len(doc.Channels)),
		ProgramsByChannel: make(map[string][]RawProgram),
	}

	for _, ch := range doc.Channels {
		raw := RawChannel{ID: ch.ID}
		if len(ch.DisplayNames) > 0 {
			raw.Name = ch.DisplayNames[0]
		}
		if ch.Icon != nil {
			raw.Icon = ch.Icon.Src
		}
		guide.Channels = append(guide.Channels, raw)
	}

	for _, prog := range doc.Programmes {
		raw := RawProgram{
			Channel:     prog.Channel,
			Start:       parseXMLTVTime(prog.Start),
			Stop:        parseXMLTVTime(prog.Stop),
			Description: prog.Desc,
			Date:        prog.Date,
		}
		if len(prog.Titles) > 0 {
			raw.Title = prog.Titles[0]
		}
		if len(prog.EpisodeNums) > 0 {
			raw.Episode = prog.EpisodeNums[0]
		}
		if prog.Icon != nil {
			raw.Icon = prog.Icon.Src
		}
		guide.ProgramsByChannel[prog.Channel] = append(guide.ProgramsByChannel[prog.Channel], raw)
	}

	return guide, nil
}

func parseXMLTVTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(xmltvTimeLayout, value); err == nil {
		return t
	}
	if t, err := time.Parse(xmltvBareTimeLayout, value); err == nil {
		return t
	}
	return time.Time{}
}
