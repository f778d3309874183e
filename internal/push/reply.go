package push

import (
	"encoding/xml"
	"time"
)

// Respuestas XML a una notificación push. Cada builder invierte
// From/To respecto del push recibido.

type cdata struct {
	Text string `xml:",cdata"`
}

type replyHeader struct {
	ToUserName   cdata
	FromUserName cdata
	CreateTime   int64
	MsgType      cdata
}

func (p *Push) header(msgType string) replyHeader {
	return replyHeader{
		ToUserName:   cdata{p.FromUser},
		FromUserName: cdata{p.ToUser},
		CreateTime:   time.Now().Unix(),
		MsgType:      cdata{msgType},
	}
}

func marshal(v any) []byte {
	b, _ := xml.Marshal(v)
	return b
}

// ReplyText responde con un mensaje de texto.
func (p *Push) ReplyText(text string) []byte {
	var reply struct {
		XMLName xml.Name `xml:"xml"`
		replyHeader
		Content cdata
	}
	reply.replyHeader = p.header("text")
	reply.Content = cdata{text}
	return marshal(reply)
}

type mediaID struct {
	MediaId cdata
}

// ReplyImage responde con una imagen por media id.
func (p *Push) ReplyImage(imageMediaID string) []byte {
	var reply struct {
		XMLName xml.Name `xml:"xml"`
		replyHeader
		Image mediaID
	}
	reply.replyHeader = p.header("image")
	reply.Image = mediaID{cdata{imageMediaID}}
	return marshal(reply)
}

// ReplyVoice responde con un audio por media id.
func (p *Push) ReplyVoice(voiceMediaID string) []byte {
	var reply struct {
		XMLName xml.Name `xml:"xml"`
		replyHeader
		Voice mediaID
	}
	reply.replyHeader = p.header("voice")
	reply.Voice = mediaID{cdata{voiceMediaID}}
	return marshal(reply)
}

// Video describe la respuesta de video.
type Video struct {
	MediaID     string
	Title       string
	Description string
}

// ReplyVideo responde con un video. El media id tiene que estar aprobado o
// ser material permanente.
func (p *Push) ReplyVideo(v Video) []byte {
	var reply struct {
		XMLName xml.Name `xml:"xml"`
		replyHeader
		Video struct {
			MediaId     cdata
			Title       *cdata `xml:",omitempty"`
			Description *cdata `xml:",omitempty"`
		}
	}
	reply.replyHeader = p.header("video")
	reply.Video.MediaId = cdata{v.MediaID}
	if v.Title != "" {
		reply.Video.Title = &cdata{v.Title}
	}
	if v.Description != "" {
		reply.Video.Description = &cdata{v.Description}
	}
	return marshal(reply)
}

// Music describe la respuesta de música.
type Music struct {
	Title        string
	Description  string
	MusicURL     string
	HQMusicURL   string
	ThumbMediaID string
}

// ReplyMusic responde con una pista de música.
func (p *Push) ReplyMusic(m Music) []byte {
	var reply struct {
		XMLName xml.Name `xml:"xml"`
		replyHeader
		Music struct {
			Title        cdata
			Description  cdata
			MusicUrl     cdata
			HQMusicUrl   cdata
			ThumbMediaId *cdata `xml:",omitempty"`
		}
	}
	reply.replyHeader = p.header("music")
	reply.Music.Title = cdata{m.Title}
	reply.Music.Description = cdata{m.Description}
	reply.Music.MusicUrl = cdata{m.MusicURL}
	reply.Music.HQMusicUrl = cdata{m.HQMusicURL}
	if m.ThumbMediaID != "" {
		reply.Music.ThumbMediaId = &cdata{m.ThumbMediaID}
	}
	return marshal(reply)
}

// Article es una entrada de la respuesta de noticias.
type Article struct {
	Title       string
	Description string
	PicURL      string
	URL         string
}

// ReplyNews responde con una lista de artículos.
func (p *Push) ReplyNews(articles []Article) []byte {
	type item struct {
		Title       *cdata `xml:",omitempty"`
		Description *cdata `xml:",omitempty"`
		PicUrl      *cdata `xml:",omitempty"`
		Url         *cdata `xml:",omitempty"`
	}
	var reply struct {
		XMLName xml.Name `xml:"xml"`
		replyHeader
		ArticleCount int
		Articles     struct {
			Item []item `xml:"item"`
		}
	}
	reply.replyHeader = p.header("news")
	reply.ArticleCount = len(articles)
	for _, a := range articles {
		var it item
		if a.Title != "" {
			it.Title = &cdata{a.Title}
		}
		if a.Description != "" {
			it.Description = &cdata{a.Description}
		}
		if a.PicURL != "" {
			it.PicUrl = &cdata{a.PicURL}
		}
		if a.URL != "" {
			it.Url = &cdata{a.URL}
		}
		reply.Articles.Item = append(reply.Articles.Item, it)
	}
	return marshal(reply)
}
