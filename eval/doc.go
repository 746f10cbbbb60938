// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package eval scores localization predictions against gold fixed files.
//
// Metrics follow standard IR definitions over ranked file lists: Accuracy@k
// (any hit in the top k), MRR (reciprocal rank of the first hit within the
// top 10) and MAP (average precision within the top 10). The package also
// exports per-trial hit lists as CSV and computes their union and intersection
// across trials to gauge run-to-run variability.
package eval
