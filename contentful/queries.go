package contentful

const assetFields = `
fragment ImageFields on Asset {
  __typename
  sys { id }
  title
  description
  url
  contentType
  width
  height
}
`

const authorFields = `
fragment AuthorFields on ComponentAuthor {
  __typename
  sys { id }
  name
  avatar { ...ImageFields }
}
`

const seoFields = `
fragment SeoFields on ComponentSeo {
  __typename
  pageTitle
  pageDescription
  canonicalUrl
  nofollow
  noindex
  shareImagesCollection(limit: 3, locale: $locale) {
    items { ...ImageFields }
  }
}
`

const blogPostFields = `
fragment ReferencePageBlogPostFields on PageBlogPost {
  __typename
  sys { id spaceId publishedAt firstPublishedAt }
  slug
  author { ...AuthorFields }
  publishedDate
  title
  internalName
  shortDescription
  featuredImage { ...ImageFields }
}

fragment PageBlogPostFields on PageBlogPost {
  ...ReferencePageBlogPostFields
  seoFields { ...SeoFields }
  content {
    json
    links {
      entries {
        block {
          __typename
          sys { id }
          ... on ComponentRichImage {
            internalName
            caption
            fullWidth
            image { ...ImageFields }
          }
          ... on PageBlogPostWithHtml {
            title
            sourceUrl
            featuredImage { ...ImageFields }
          }
        }
      }
    }
  }
  relatedBlogPostsCollection(limit: 2) {
    items { ...ReferencePageBlogPostFields }
  }
}
`

const htmlPostFields = `
fragment PageBlogPostWithHtmlFields on PageBlogPostWithHtml {
  __typename
  sys { id spaceId publishedAt firstPublishedAt }
  internalName
  slug
  title
  html
  sourceUrl
  author { ...AuthorFields }
  featuredImage { ...ImageFields }
}
`

const pageLandingQuery = `
query pageLanding($locale: String, $preview: Boolean) {
  pageLandingCollection(limit: 1, locale: $locale, preview: $preview) {
    items {
      __typename
      sys { id spaceId }
      internalName
      greeting
      seoFields { ...SeoFields }
      featuredBlogPost { ...ReferencePageBlogPostFields }
    }
  }
}
` + seoFields + blogPostFields + authorFields + assetFields

const pageBlogPostQuery = `
query pageBlogPost($slug: String!, $locale: String, $preview: Boolean) {
  pageBlogPostCollection(limit: 1, where: { slug: $slug }, locale: $locale, preview: $preview) {
    items { ...PageBlogPostFields }
  }
}
` + blogPostFields + seoFields + authorFields + assetFields

const pageBlogPostCollectionQuery = `
query pageBlogPostCollection($locale: String, $preview: Boolean, $limit: Int, $order: [PageBlogPostOrder], $where: PageBlogPostFilter) {
  pageBlogPostCollection(limit: $limit, locale: $locale, preview: $preview, order: $order, where: $where) {
    items { ...PageBlogPostFields }
  }
}
` + blogPostFields + seoFields + authorFields + assetFields

const pageBlogPostWithHTMLQuery = `
query pageBlogPostWithHtml($slug: String!, $locale: String, $preview: Boolean) {
  pageBlogPostWithHtmlCollection(limit: 1, where: { slug: $slug }, locale: $locale, preview: $preview) {
    items { ...PageBlogPostWithHtmlFields }
  }
}
` + htmlPostFields + authorFields + assetFields

const pageBlogPostWithHTMLCollectionQuery = `
query pageBlogPostWithHtmlCollection($locale: String, $preview: Boolean, $limit: Int, $order: [PageBlogPostWithHtmlOrder], $where: PageBlogPostWithHtmlFilter) {
  pageBlogPostWithHtmlCollection(limit: $limit, locale: $locale, preview: $preview, order: $order, where: $where) {
    items { ...PageBlogPostWithHtmlFields }
  }
}
` + htmlPostFields + authorFields + assetFields
