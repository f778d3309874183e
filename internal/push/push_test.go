package push

import (
	"strings"
	"testing"
)

func pushXML(fields string) []byte {
	return []byte(`<xml><ToUserName><![CDATA[gh_account]]></ToUserName><FromUserName><![CDATA[o6_xyz]]></FromUserName><CreateTime>1700000000</CreateTime>` + fields + `</xml>`)
}

func TestParseTextMessage(t *testing.T) {
	p, err := Parse(pushXML(`<MsgType><![CDATA[text]]></MsgType><Content><![CDATA[hola]]></Content><MsgId>42</MsgId>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Type != "text" {
		t.Fatalf("Type = %q, want text", p.Type)
	}
	if p.FromUser != "o6_xyz" || p.ToUser != "gh_account" {
		t.Fatalf("From = %q, To = %q", p.FromUser, p.ToUser)
	}
	if p.Field("Content") != "hola" {
		t.Fatalf("Content = %q", p.Field("Content"))
	}
}

func TestParseSubscribeEvent(t *testing.T) {
	p, err := Parse(pushXML(`<MsgType><![CDATA[event]]></MsgType><Event><![CDATA[subscribe]]></Event>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Type != "subscribe" {
		t.Fatalf("Type = %q, want subscribe", p.Type)
	}
}

func TestParseScanSubscribe(t *testing.T) {
	// subscribe con Ticket viene de escanear un QR de escena sin seguir la cuenta
	p, err := Parse(pushXML(`<MsgType><![CDATA[event]]></MsgType><Event><![CDATA[subscribe]]></Event><EventKey><![CDATA[qrscene_12]]></EventKey><Ticket><![CDATA[TICKET]]></Ticket>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Type != "scan_subscribe" {
		t.Fatalf("Type = %q, want scan_subscribe", p.Type)
	}
	if p.Field("EventKey") != "qrscene_12" {
		t.Fatalf("EventKey = %q", p.Field("EventKey"))
	}
}

func TestParseLocationEvent(t *testing.T) {
	p, err := Parse(pushXML(`<MsgType><![CDATA[event]]></MsgType><Event><![CDATA[LOCATION]]></Event><Latitude>23.14</Latitude><Longitude>113.35</Longitude>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Type != "user_location" {
		t.Fatalf("Type = %q, want user_location", p.Type)
	}
	if p.Field("Latitude") != "23.14" {
		t.Fatalf("Latitude = %q", p.Field("Latitude"))
	}
}

func TestParseOtherEventsLowercased(t *testing.T) {
	p, err := Parse(pushXML(`<MsgType><![CDATA[event]]></MsgType><Event><![CDATA[CLICK]]></Event><EventKey><![CDATA[menu_key]]></EventKey>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Type != "click" {
		t.Fatalf("Type = %q, want click", p.Type)
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse([]byte(`not xml`)); err == nil {
		t.Fatal("Parse: expected error")
	}
}

func TestReplyTextShape(t *testing.T) {
	p, err := Parse(pushXML(`<MsgType><![CDATA[text]]></MsgType><Content><![CDATA[hola]]></Content>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out := string(p.ReplyText("bienvenida"))

	// From/To invertidos respecto del push
	for _, want := range []string{
		"<ToUserName><![CDATA[o6_xyz]]></ToUserName>",
		"<FromUserName><![CDATA[gh_account]]></FromUserName>",
		"<MsgType><![CDATA[text]]></MsgType>",
		"<Content><![CDATA[bienvenida]]></Content>",
		"<CreateTime>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("reply %s missing %s", out, want)
		}
	}
	if !strings.HasPrefix(out, "<xml>") || !strings.HasSuffix(out, "</xml>") {
		t.Fatalf("reply not wrapped in <xml>: %s", out)
	}
}

func TestReplyImageShape(t *testing.T) {
	p, _ := Parse(pushXML(`<MsgType><![CDATA[text]]></MsgType>`))
	out := string(p.ReplyImage("MEDIA-1"))
	for _, want := range []string{
		"<MsgType><![CDATA[image]]></MsgType>",
		"<Image><MediaId><![CDATA[MEDIA-1]]></MediaId></Image>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("reply %s missing %s", out, want)
		}
	}
}

func TestReplyVideoOmitsEmptyFields(t *testing.T) {
	p, _ := Parse(pushXML(`<MsgType><![CDATA[text]]></MsgType>`))

	out := string(p.ReplyVideo(Video{MediaID: "MEDIA-1"}))
	if strings.Contains(out, "<Title>") || strings.Contains(out, "<Description>") {
		t.Fatalf("reply carries empty optional fields: %s", out)
	}

	out = string(p.ReplyVideo(Video{MediaID: "MEDIA-1", Title: "t", Description: "d"}))
	if !strings.Contains(out, "<Title><![CDATA[t]]></Title>") {
		t.Fatalf("reply missing title: %s", out)
	}
}

func TestReplyVoiceShape(t *testing.T) {
	p, _ := Parse(pushXML(`<MsgType><![CDATA[text]]></MsgType>`))
	out := string(p.ReplyVoice("MEDIA-1"))
	if !strings.Contains(out, "<MsgType><![CDATA[voice]]></MsgType>") ||
		!strings.Contains(out, "<Voice><MediaId><![CDATA[MEDIA-1]]></MediaId></Voice>") {
		t.Fatalf("reply = %s", out)
	}
}

func TestReplyMusicShape(t *testing.T) {
	p, _ := Parse(pushXML(`<MsgType><![CDATA[text]]></MsgType>`))
	out := string(p.ReplyMusic(Music{
		Title:    "pista",
		MusicURL: "https://example.com/m.mp3",
	}))
	if !strings.Contains(out, "<MsgType><![CDATA[music]]></MsgType>") ||
		!strings.Contains(out, "<MusicUrl><![CDATA[https://example.com/m.mp3]]></MusicUrl>") {
		t.Fatalf("reply = %s", out)
	}
	if strings.Contains(out, "<ThumbMediaId>") {
		t.Fatalf("reply carries empty thumb: %s", out)
	}
}

func TestReplyNewsArticleCount(t *testing.T) {
	p, _ := Parse(pushXML(`<MsgType><![CDATA[text]]></MsgType>`))
	out := string(p.ReplyNews([]Article{
		{Title: "uno", URL: "https://example.com/1"},
		{Title: "dos", URL: "https://example.com/2"},
	}))
	for _, want := range []string{
		"<MsgType><![CDATA[news]]></MsgType>",
		"<ArticleCount>2</ArticleCount>",
		"<Title><![CDATA[uno]]></Title>",
		"<Url><![CDATA[https://example.com/2]]></Url>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("reply %s missing %s", out, want)
		}
	}
	if got := strings.Count(out, "<item>"); got != 2 {
		t.Fatalf("items = %d, want 2", got)
	}
}
