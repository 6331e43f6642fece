package explain

import (
	"github.com/ashureev/quadlab/internal/solver"
	"golang.org/x/text/language"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// The explanation sidecar speaks a single server-streaming method. Requests
// are a Struct {a, b, c, lang}; each streamed chunk is a StringValue.
const (
	serviceName   = "quadlab.explain.v1.ExplainService"
	explainMethod = "/" + serviceName + "/Explain"
)

var explainStreamDesc = grpc.StreamDesc{
	StreamName:    "Explain",
	ServerStreams: true,
}

func requestToStruct(req Request) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"a":    req.Coefficients.A,
		"b":    req.Coefficients.B,
		"c":    req.Coefficients.C,
		"lang": req.Lang.String(),
	})
}

func requestFromStruct(s *structpb.Struct) Request {
	fields := s.GetFields()
	lang, err := language.Parse(fields["lang"].GetStringValue())
	if err != nil {
		lang = language.Vietnamese
	}
	return Request{
		Coefficients: solver.Coefficients{
			A: fields["a"].GetNumberValue(),
			B: fields["b"].GetNumberValue(),
			C: fields["c"].GetNumberValue(),
		}.Sanitize(),
		Lang: lang,
	}
}
