// Package stream carries sequences of bufti records over a byte stream.
//
// A bufti record has no end marker of its own, so each encoded record is
// wrapped in a frame: a 4-byte big-endian payload length followed by the
// payload. Writer and Reader pair the framing with a model's Encode and
// Decode.
//
//	w := stream.NewWriter(conn, m, false)
//	err := w.Write(map[string]any{"a": "hi"})
//
//	r := stream.NewReader(conn, m, false)
//	for {
//		record, err := r.Next()
//		if err == io.EOF {
//			break
//		}
//		...
//	}
package stream
