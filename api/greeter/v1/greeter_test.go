package v1

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceDescMatchesProto(t *testing.T) {
	// Metadata is "greeter/v1/greeter.proto", relative to the api/ root.
	src, err := os.ReadFile(filepath.Base(Greeter_ServiceDesc.Metadata.(string)))
	require.NoError(t, err)
	proto := string(src)

	pkg, svc, _ := strings.Cut(Greeter_ServiceDesc.ServiceName, ".Greeter")
	assert.Empty(t, svc)
	assert.Contains(t, proto, "package "+pkg+";")
	assert.Contains(t, proto, "service Greeter {")
	require.Len(t, Greeter_ServiceDesc.Methods, 1)
	assert.Equal(t, "SayHello", Greeter_ServiceDesc.Methods[0].MethodName)
	assert.Contains(t, proto, "rpc SayHello(google.protobuf.StringValue) returns (google.protobuf.StringValue);")
	assert.Equal(t, "/"+ServiceName+"/SayHello", Greeter_SayHello_FullMethodName)
}
