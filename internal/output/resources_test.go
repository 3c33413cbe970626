package output

import (
	"reflect"
	"strings"
	"testing"
)

func TestCountResources(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ResourceCounts
	}{
		{
			name:  "empty",
			input: "",
			want:  ResourceCounts{},
		},
		{
			name:  "single instance counted once",
			input: "aws_instance.x",
			want:  ResourceCounts{"AWS Instance": 1},
		},
		{
			name:  "repeated identifiers counted once",
			input: "aws_instance.web\naws_instance.web will be destroyed\naws_instance.db",
			want:  ResourceCounts{"AWS Instance": 2},
		},
		{
			name:  "specific and other",
			input: "aws_vpc.main\naws_subnet.a\naws_subnet.b\naws_s3_bucket.logs",
			want:  ResourceCounts{"AWS VPC": 1, "AWS Subnet": 2, OtherResourcesLabel: 1},
		},
		{
			name:  "peering connection is not also other",
			input: "aws_vpc_peering_connection.peer",
			want:  ResourceCounts{"VPC Connection": 1},
		},
		{
			name:  "vpc followed by connection on the same line stays a vpc",
			input: "aws_vpc.main has connection issues",
			want:  ResourceCounts{"AWS VPC": 1},
		},
		{
			name:  "route and route table are distinct",
			input: "aws_route.default\naws_route_table.private",
			want:  ResourceCounts{"Route": 1, "AWS Route Table": 1},
		},
		{
			name:  "network resources",
			input: "aws_security_group.web\naws_internet_gateway.gw\naws_network_acl.main",
			want:  ResourceCounts{"AWS Security Group": 1, "AWS Internet Gateway": 1, "AWS NACL": 1},
		},
		{
			name:  "lambda goes to other",
			input: "Plan: 0 to add, 0 to change, 1 to destroy.\naws_lambda_function.example",
			want:  ResourceCounts{OtherResourcesLabel: 1},
		},
		{
			name:  "case insensitive specific match",
			input: "AWS_INSTANCE.Web",
			want:  ResourceCounts{"AWS Instance": 1},
		},
		{
			name:  "generic fallback by prefix",
			input: "module.network\nmodule.compute\nmodule.network\ndata.foo",
			want:  ResourceCounts{"Module": 2, "Data": 1},
		},
		{
			name:  "no identifiers",
			input: "Plan: 0 to add, 0 to change, 1 to destroy.",
			want:  ResourceCounts{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CountResources(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CountResources() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCountResources_EachIdentifierOnce(t *testing.T) {
	inputs := []string{
		"aws_instance.x",
		"aws_vpc.main\naws_vpc_peering_connection.p\naws_route.r\naws_route_table.t",
		"aws_subnet.a aws_subnet.a aws_subnet.a",
		strings.Repeat("aws_security_group.sg\n", 5),
	}
	wants := []int{1, 4, 1, 1}

	for i, input := range inputs {
		if got := CountResources(input).Total(); got != wants[i] {
			t.Errorf("CountResources(%q).Total() = %d, want %d", input, got, wants[i])
		}
	}
}

func TestGenericLabel(t *testing.T) {
	tests := map[string]string{
		"module":              "Module",
		"null_resource":       "Null Resource",
		"aws_lambda_function": "AWS Lambda Function",
	}
	for input, want := range tests {
		if got := genericLabel(input); got != want {
			t.Errorf("genericLabel(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestResourceCounts_SortedLabels(t *testing.T) {
	counts := ResourceCounts{"Route": 1, "AWS VPC": 2, "Other AWS Resources": 3}
	got := counts.SortedLabels()
	want := []string{"AWS VPC", "Other AWS Resources", "Route"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortedLabels() = %v, want %v", got, want)
	}
	if counts.Total() != 6 {
		t.Errorf("Total() = %d, want 6", counts.Total())
	}
}
