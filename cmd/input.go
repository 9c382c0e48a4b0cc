package cmd

import (
	"encoding/hex"
	"log"
	"strings"

	"github.com/pkg/errors"

	"github.com/cube2222/typewire/datatype"
	"github.com/cube2222/typewire/typecodec"
	"github.com/cube2222/typewire/typename"
)

// resolve reads an argument as hex when it looks like hex, otherwise as a
// type name. It returns the type along with its encoding.
func (e *environment) resolve(input string) (datatype.Type, []byte, error) {
	if data, ok := parseHex(input); ok {
		t, err := e.decode(data)
		if err != nil {
			return datatype.Type{}, nil, err
		}
		return t, data, nil
	}

	t, err := typename.Parse(input)
	if err != nil {
		return datatype.Type{}, nil, errors.Wrap(err, "couldn't parse type name")
	}
	data, err := typecodec.Encode(t)
	if err != nil {
		return datatype.Type{}, nil, errors.Wrap(err, "couldn't encode type")
	}
	return t, data, nil
}

func (e *environment) decode(data []byte) (datatype.Type, error) {
	t, err := e.cache.Decode(data)
	if err != nil {
		log.Printf("couldn't decode %x: %s", data, err)
		return datatype.Type{}, errors.Wrap(err, "couldn't decode type")
	}
	return t, nil
}

// parseHex accepts hex digits separated by spaces, every group optionally
// prefixed with 0x. Custom type names made only of hex digits, like beef,
// are read as hex.
func parseHex(input string) ([]byte, bool) {
	fields := strings.Fields(input)
	for i := range fields {
		fields[i] = strings.TrimPrefix(strings.TrimPrefix(fields[i], "0x"), "0X")
	}
	s := strings.Join(fields, "")
	if s == "" {
		return nil, false
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, false
	}
	return data, true
}

func formatHex(data []byte) string {
	return hex.EncodeToString(data)
}
