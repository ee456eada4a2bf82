package graphs

import (
	"bytes"
	"compress/flate"
	"fmt"
)

// DefaultServer is the public PlantUML rendering service.
const DefaultServer = "http://www.plantuml.com/plantuml"

// plantumlAlphabet is the server's base64 variant ("~1" huffman-free form).
const plantumlAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"

// ServerURL deflates the diagram text and encodes it for the PlantUML server.
func ServerURL(server, diagram string) (string, error) {
	if server == "" {
		server = DefaultServer
	}
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", err
	}
	if _, err := w.Write([]byte(diagram)); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/uml/%s", server, encode64(buf.Bytes())), nil
}

// encode64 packs bytes three at a time into four alphabet characters.
func encode64(data []byte) string {
	var out []byte
	for i := 0; i < len(data); i += 3 {
		var b1, b2, b3 byte
		b1 = data[i]
		if i+1 < len(data) {
			b2 = data[i+1]
		}
		if i+2 < len(data) {
			b3 = data[i+2]
		}
		out = append(out,
			plantumlAlphabet[b1>>2],
			plantumlAlphabet[((b1&0x3)<<4)|(b2>>4)],
			plantumlAlphabet[((b2&0xF)<<2)|(b3>>6)],
			plantumlAlphabet[b3&0x3F],
		)
	}
	return string(out)
}
