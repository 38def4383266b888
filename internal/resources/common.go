package resources

import (
	"context"

	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/types"
)

// expandConfig converts the Terraform config map attribute into the plain
// string map the Connect API expects. Keys are plugin-specific and passed
// through opaquely; the worker is the source of truth for validity.
func expandConfig(ctx context.Context, m types.Map, diags *diag.Diagnostics) map[string]string {
	config := make(map[string]string, len(m.Elements()))
	diags.Append(m.ElementsAs(ctx, &config, false)...)
	return config
}

// flattenConfig converts an API config map back into the Terraform map
// attribute value.
func flattenConfig(ctx context.Context, config map[string]string, diags *diag.Diagnostics) types.Map {
	m, d := types.MapValueFrom(ctx, types.StringType, config)
	diags.Append(d...)
	return m
}
